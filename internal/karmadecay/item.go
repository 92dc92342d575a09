package karmadecay

import (
	"errors"
	"regexp"

	"kdscan/internal/extract"
	"kdscan/internal/model"

	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// ErrNoInfoCell is returned for rows that carry no info cell and therefore
// are not result rows.
var ErrNoInfoCell = errors.New("karmadecay: row has no info cell")

var (
	infoCellX   = xpath.MustCompile("td[@class='info']")
	imageLinkX  = xpath.MustCompile("td[@class='img']/a/@href")
	titleX      = xpath.MustCompile("div[@class='title']/a")
	linkX       = xpath.MustCompile("div[@class='title']/a/@href")
	similarityX = xpath.MustCompile("div[@class='similar']/span[@class='fr']")
	submittedX  = xpath.MustCompile("div[@class='submitted']")
	userX       = xpath.MustCompile("div[@class='submitted']/a[1]")
	subredditX  = xpath.MustCompile("div[@class='submitted']/a[2]")
	votesX      = xpath.MustCompile("div[not(@class)]/div[@class='votes']/b")
	commentsX   = xpath.MustCompile("div[not(@class)]/div[@class='comments']/b")

	percentRe = regexp.MustCompile(`([\d.]+)%`)
	ageRe     = regexp.MustCompile(`submitted\s(.*)\sago`)
	countRe   = regexp.MustCompile(`[-\d*]+`) // asterisks mark hidden counts
)

// BuildMatch extracts one match from a result row. Every field is extracted
// on its own, so a malformed field never affects its siblings.
func BuildMatch(row *html.Node, fb extract.Fallback) (model.Match, error) {
	sel, ok := extract.Select(row, infoCellX)
	if !ok || !sel.IsNode() {
		return model.Match{}, ErrNoInfoCell
	}
	info := sel.Node

	return model.Match{
		ImageLink:    extract.Optional(extract.Text(row, imageLinkX, nil)),
		Title:        extract.Optional(extract.Text(info, titleX, nil)),
		Link:         extract.Optional(extract.Text(info, linkX, nil)),
		Similarity:   castText(fb, extract.Float, info, similarityX, percentRe),
		SubmittedAge: extract.Optional(extract.Text(info, submittedX, ageRe)),
		User:         extract.Optional(extract.Text(info, userX, nil)),
		Subreddit:    extract.Optional(extract.Text(info, subredditX, nil)),
		Score:        castText(fb, extract.Int, info, votesX, countRe),
		Comments:     castText(fb, extract.Int, info, commentsX, countRe),
	}, nil
}

func castText[T extract.Number](fb extract.Fallback, parse func(string) (T, error), n *html.Node, expr *xpath.Expr, re *regexp.Regexp) *T {
	raw, ok := extract.Text(n, expr, re)
	return extract.Cast(fb, parse, raw, ok)
}

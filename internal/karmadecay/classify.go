package karmadecay

import (
	"log/slog"

	"kdscan/internal/extract"
	"kdscan/internal/model"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// Row classes used by the results table.
const (
	classHead    = "s"      // exact match shown above the list
	classResult  = "result" // ordinary match
	classLess    = "ls"     // "less similar" divider
	classLessImg = "lsi"    // "less similar" divider, image variant
)

var (
	headRowX = xpath.MustCompile("//tr[@class='s']")
	rowsX    = xpath.MustCompile("//tr[@class='result' or @class='ls' or @class='lsi']")
)

// Classify splits a results page into its primary and less-similar matches.
// The head row is included first unless sameService is set (it would echo the
// queried post) or it has no link. Rows before the first divider are primary,
// rows after it are less similar; without a divider every row is primary.
func Classify(doc *html.Node, sameService, lessSimilar bool, fb extract.Fallback) model.Result {
	res := model.Result{Matches: []model.Match{}}
	if lessSimilar {
		res.LessSimilar = []model.Match{}
	}

	if !sameService {
		if head := htmlquery.QuerySelector(doc, headRowX); head != nil {
			if m, err := BuildMatch(head, fb); err == nil && m.Link != nil {
				res.Matches = append(res.Matches, m)
			}
		}
	}

	pastDivider := false
	for _, row := range htmlquery.QuerySelectorAll(doc, rowsX) {
		switch htmlquery.SelectAttr(row, "class") {
		case classLess, classLessImg:
			pastDivider = true
			continue
		case classResult:
		default:
			continue
		}
		if pastDivider && !lessSimilar {
			break
		}
		m, err := BuildMatch(row, fb)
		if err != nil {
			slog.Warn("karmadecay: skipping malformed row", "error", err)
			continue
		}
		if pastDivider {
			res.LessSimilar = append(res.LessSimilar, m)
		} else {
			res.Matches = append(res.Matches, m)
		}
	}
	return res
}

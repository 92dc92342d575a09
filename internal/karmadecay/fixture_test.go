package karmadecay

import (
	"fmt"
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// row renders one results-table row the way KarmaDecay does.
func row(class, id string) string {
	return fmt.Sprintf(`<tr class="%[1]s">
  <td class="img"><a href="https://i.imgur.com/%[2]s.jpg"><img src="x"></a></td>
  <td class="info">
    <div class="title"><a href="https://www.reddit.com/r/pics/comments/%[2]s/">Post %[2]s</a></div>
    <div class="similar">similarity <span class="fr">%[3]d.5%%</span></div>
    <div class="submitted">submitted 3
      days ago by <a href="/u/user%[2]s">user%[2]s</a> to <a href="/r/pics">pics</a></div>
    <div><div class="votes"><b>-12 points</b></div><div class="comments"><b>34 comments</b></div></div>
  </td>
</tr>`, class, id, 90)
}

func page(rows ...string) string {
	return `<html><body><table id="results">` + strings.Join(rows, "\n") + `</table></body></html>`
}

const (
	divider    = `<tr class="ls"><td colspan="2">less similar results</td></tr>`
	dividerImg = `<tr class="lsi"><td colspan="2"><img src="ls.png"></td></tr>`
	headNoLink = `<tr class="s"><td class="img"></td><td class="info"><div class="title">no link here</div></td></tr>`
)

// fullPage has a head row, three similar rows and two less similar rows.
func fullPage() string {
	return page(
		row("s", "head"),
		row("result", "r1"), row("result", "r2"), row("result", "r3"),
		divider,
		row("result", "l1"), row("result", "l2"),
	)
}

func mustParse(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := htmlquery.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

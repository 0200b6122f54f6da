package render

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/portfolio-labs/ptrack/internal/ui"
)

var summaryParser = goldmark.New().Parser()

// Summary returns the plain text of the first paragraph of a markdown
// comment, truncated to max characters. Headings, lists and code blocks
// before the first paragraph are skipped.
func Summary(markdown string, max int) string {
	src := []byte(markdown)
	doc := summaryParser.Parse(text.NewReader(src))

	var para ast.Node
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Kind() == ast.KindParagraph {
			para = n
			break
		}
	}
	if para == nil {
		return ""
	}

	var b strings.Builder
	_ = ast.Walk(para, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.AutoLink:
			b.Write(node.Label(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	s := strings.Join(strings.Fields(b.String()), " ")
	if max > 0 {
		s = ui.TruncateWithEllipsis(s, max)
	}
	return s
}

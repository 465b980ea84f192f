// Package renderer highlights stored page source for the admin area.
package renderer

import (
	"bytes"
	"html/template"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightHTML renders stored page HTML as syntax-highlighted markup with
// inline styles, so the admin templates need no extra stylesheet.
func HighlightHTML(source []byte) (template.HTML, error) {
	lexer := lexers.Get("html")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := lexer.Tokenise(nil, string(source))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	formatter := html.New(html.WithLineNumbers(true))
	if err := formatter.Format(&buf, styles.Get("friendly"), iterator); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Package render builds the static page shell stored for each submission.
package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// The shell is rendered once at creation time and stored verbatim; serving
// a page never re-renders it.
const shellHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    {{- if .Description}}
    <meta name="description" content="{{.Description}}">
    {{- end}}
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Roboto', sans-serif;
            line-height: 1.6;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
            color: #333;
        }
        img {
            max-width: 100%;
            height: auto;
        }
        a {
            color: #0066cc;
        }
        .back-link {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #eee;
        }
    </style>
</head>
<body>
    {{.Content}}

    <div class="back-link">
        <a href="/">&larr; Back to home</a>
    </div>
</body>
</html>
`

var shellTmpl = template.Must(template.New("shell").Parse(shellHTML))

type shellData struct {
	Title       string
	Description string
	Content     template.HTML
}

// Shell wraps submitted HTML in the standalone page shell. The content is
// stored and served as-is; only title and description are escaped.
func Shell(title, description string, content []byte) ([]byte, error) {
	var buf bytes.Buffer
	data := shellData{
		Title:       title,
		Description: description,
		Content:     template.HTML(content),
	}
	if err := shellTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering page shell: %w", err)
	}
	return buf.Bytes(), nil
}

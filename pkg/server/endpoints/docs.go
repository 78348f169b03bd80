package endpoints

import (
	"bytes"
	_ "embed"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/monish1402/insurance-llm-system1/pkg/server"
)

//go:embed api.md
var apiDocsMarkdown []byte

var (
	docsOnce sync.Once
	docsHTML []byte
	docsErr  error
)

// RegisterDocsEndpoint registers the rendered API documentation page
func RegisterDocsEndpoint(s *server.Server) {
	s.Router.HandleFunc("/docs", handleDocs()).Methods("GET")
}

func handleDocs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docsOnce.Do(renderDocs)
		if docsErr != nil {
			http.Error(w, "failed to render documentation", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(docsHTML)
	}
}

func renderDocs() {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	var body bytes.Buffer
	body.WriteString(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width">
    <title>Insurance Document Processing API</title>
    <style>
      body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
      table { border-collapse: collapse; }
      th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
      pre { background: #f4f4f4; padding: 0.8rem; overflow-x: auto; }
    </style>
  </head>
  <body>
`)
	if err := md.Convert(apiDocsMarkdown, &body); err != nil {
		docsErr = err
		return
	}
	body.WriteString("\n  </body>\n</html>\n")
	docsHTML = body.Bytes()
}

package api

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/lightspeed/internal/api/handlers"
)

//go:embed web/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// PageOptions configures the interactive chart page
type PageOptions struct {
	Title  string
	Width  int
	Height int
}

type pageData struct {
	Title   string
	Width   int
	Height  int
	SVG     template.HTML
	Records int
}

func pageHandler(chartHandler *handlers.ChartHandler, opts PageOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svg, err := chartHandler.CurrentSVG()
		if err != nil {
			log.Error().Err(err).Msg("Failed to render chart for page")
			http.Error(w, "Failed to render chart", http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		err = indexTemplate.Execute(&buf, pageData{
			Title:   opts.Title,
			Width:   opts.Width,
			Height:  opts.Height,
			SVG:     template.HTML(svg),
			Records: chartHandler.RecordCount(r.Context()),
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to execute page template")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}

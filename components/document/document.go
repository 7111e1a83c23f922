// components/document/document.go
//
// Document Component – preview and export of the authorization PDF.
//
// Context
//   GET /document/preview?id=     fetches and normalizes the record, then
//                                 renders an HTML preview with export
//                                 actions.
//   GET /document/export?id=      runs the pipeline.  mode=download sends
//                                 the open PDF as a named attachment;
//                                 mode=view runs the protected variant and
//                                 redirects to a transient blob URL.  The
//                                 default mode comes from configuration.
//   GET /document/blob/{token}    serves a parked protected PDF inline
//                                 until its sixty-second reference expires.
//
//------------------------------------------------------------------------------

package documentcomp

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ica-so/etas-portal/internal/component"
	"github.com/ica-so/etas-portal/internal/document"
	"github.com/ica-so/etas-portal/internal/export"
	"github.com/ica-so/etas-portal/internal/view"
)

var _ component.Component = (*Comp)(nil)

type Comp struct {
	app *component.App
}

func (c *Comp) Name() string { return "document" }

func (c *Comp) Register(app *component.App, r chi.Router) {
	c.app = app
	r.Get("/document/preview", c.handlePreview)
	r.Get("/document/export", c.handleExport)
	r.Get("/document/blob/{token}", c.handleBlob)
}

func (c *Comp) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing record id", http.StatusBadRequest)
		return
	}

	model, err := c.app.Exporter.Fetch(r.Context(), id)
	if err != nil {
		c.fail(w, err)
		return
	}

	data := map[string]any{
		"Head":  view.Head("eTAS Preview – eTAS Portal"),
		"M":     model,
		"ID":    id,
		"State": c.app.Exporter.State(id).String(),
	}
	if err := view.Render(w, "document", "preview", data, view.CacheDefault); err != nil {
		zap.S().Errorw("preview template render failed", "err", err)
	}
}

func (c *Comp) handleExport(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing record id", http.StatusBadRequest)
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "download"
		if c.app.Cfg.Document.Protect {
			mode = "view"
		}
	}

	switch mode {
	case "view":
		token, err := c.app.Exporter.ExportTransient(r.Context(), id)
		if err != nil {
			c.fail(w, err)
			return
		}
		http.Redirect(w, r, "/document/blob/"+token, http.StatusSeeOther)

	case "download":
		res, err := c.app.Exporter.Export(r.Context(), id, false)
		if err != nil {
			c.fail(w, err)
			return
		}
		if err := export.Download(w, res); err != nil {
			zap.S().Warnw("pdf delivery interrupted", "record", id, "err", err)
		}

	default:
		http.Error(w, "unknown export mode", http.StatusBadRequest)
	}
}

func (c *Comp) handleBlob(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	res, ok := c.app.Exporter.Blobs.Get(token)
	if !ok {
		http.Error(w, "document reference expired", http.StatusGone)
		return
	}
	if err := export.Inline(w, res); err != nil {
		zap.S().Warnw("pdf delivery interrupted", "token", token, "err", err)
	}
}

// fail maps pipeline errors onto user-visible responses.
func (c *Comp) fail(w http.ResponseWriter, err error) {
	var (
		le *document.LookupError
		ve *document.ValidationError
	)
	switch {
	case errors.As(err, &le):
		http.Error(w, "record not found", http.StatusNotFound)
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusUnprocessableEntity)
	default:
		zap.S().Errorw("document export failed", "err", err)
		http.Error(w, "unable to generate document", http.StatusInternalServerError)
	}
}

func init() {
	component.Register(&Comp{})
}

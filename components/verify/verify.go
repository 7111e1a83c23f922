// components/verify/verify.go
//
// Verify Component – public QR verification endpoint.
//
// Context
//   The QR code on every printed document points here.  Both URL schemes
//   are served: /verify?etas=<number> and the path style
//   /verify/etas/<number>.  The page confirms whether the number belongs
//   to an issued authorization and shows just enough detail to match it
//   against the paper document, nothing more.
//
//------------------------------------------------------------------------------

package verify

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ica-so/etas-portal/internal/applicant"
	"github.com/ica-so/etas-portal/internal/component"
	"github.com/ica-so/etas-portal/internal/document"
	"github.com/ica-so/etas-portal/internal/view"
)

var _ component.Component = (*Comp)(nil)

type Comp struct {
	app *component.App
}

func (c *Comp) Name() string { return "verify" }

func (c *Comp) Register(app *component.App, r chi.Router) {
	c.app = app
	r.Get("/verify", func(w http.ResponseWriter, req *http.Request) {
		c.verify(w, req, req.URL.Query().Get("etas"))
	})
	r.Get("/verify/etas/{number}", func(w http.ResponseWriter, req *http.Request) {
		c.verify(w, req, chi.URLParam(req, "number"))
	})
}

func (c *Comp) verify(w http.ResponseWriter, r *http.Request, number string) {
	if !applicant.ValidEtasNumber(number) {
		c.render(w, http.StatusUnprocessableEntity, map[string]any{
			"Head":   view.Head("Verification – eTAS Portal"),
			"Valid":  false,
			"Number": number,
			"Reason": "The code is not a valid eTAS number.",
		})
		return
	}

	rec, err := c.app.Repo.ByEtas(r.Context(), number)
	if err != nil {
		if errors.Is(err, applicant.ErrNotFound) {
			c.render(w, http.StatusNotFound, map[string]any{
				"Head":   view.Head("Verification – eTAS Portal"),
				"Valid":  false,
				"Number": number,
				"Reason": "No authorization was issued under this number.",
			})
			return
		}
		zap.S().Errorw("etas verification failed", "err", err)
		http.Error(w, "verification unavailable", http.StatusInternalServerError)
		return
	}

	m := document.Normalize(rec)
	c.render(w, http.StatusOK, map[string]any{
		"Head":   view.Head("Verification – eTAS Portal"),
		"Valid":  true,
		"Number": m.EtasNumber,
		"M":      m,
	})
}

func (c *Comp) render(w http.ResponseWriter, status int, data map[string]any) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := view.Render(w, "verify", "verify", data, view.CacheDefault); err != nil {
		zap.S().Errorw("verify template render failed", "err", err)
	}
}

func init() {
	component.Register(&Comp{})
}

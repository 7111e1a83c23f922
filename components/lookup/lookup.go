// components/lookup/lookup.go
//
// Lookup Component – retrieve an application by passport number.
//
// Context
//   GET  /lookup   renders the search form.
//   POST /lookup   searches case-insensitively; a single match redirects
//                  to the document preview, anything else shows the
//                  not-found state with no retry loop.
//
//------------------------------------------------------------------------------

package lookup

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ica-so/etas-portal/internal/applicant"
	"github.com/ica-so/etas-portal/internal/component"
	"github.com/ica-so/etas-portal/internal/view"
)

var _ component.Component = (*Comp)(nil)

type Comp struct {
	app *component.App
}

func (c *Comp) Name() string { return "lookup" }

func (c *Comp) Register(app *component.App, r chi.Router) {
	c.app = app
	r.Get("/lookup", c.handleGet)
	r.Post("/lookup", c.handlePost)
}

func (c *Comp) handleGet(w http.ResponseWriter, r *http.Request) {
	c.render(w, http.StatusOK, "")
}

func (c *Comp) handlePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	passport := strings.TrimSpace(r.PostFormValue("passport_number"))
	if passport == "" {
		c.render(w, http.StatusUnprocessableEntity, "Enter your passport number.")
		return
	}

	rec, err := c.app.Repo.ByPassport(r.Context(), passport)
	if err != nil {
		if errors.Is(err, applicant.ErrNotFound) {
			c.render(w, http.StatusNotFound, "No application was found for that passport number.")
			return
		}
		zap.S().Errorw("passport lookup failed", "err", err)
		http.Error(w, "lookup unavailable", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/document/preview?id="+rec.ID, http.StatusSeeOther)
}

func (c *Comp) render(w http.ResponseWriter, status int, notice string) {
	data := map[string]any{
		"Head":   view.Head("Find My Application – eTAS Portal"),
		"Notice": notice,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := view.Render(w, "lookup", "lookup", data, view.CacheDefault); err != nil {
		zap.S().Errorw("lookup template render failed", "err", err)
	}
}

func init() {
	component.Register(&Comp{})
}

// components/home/home.go
//
// Home Component – portal landing page.
package home

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ica-so/etas-portal/internal/component"
	"github.com/ica-so/etas-portal/internal/view"
)

var _ component.Component = (*Comp)(nil)

type Comp struct{}

func (c *Comp) Name() string { return "home" }

func (c *Comp) Register(app *component.App, r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		data := map[string]any{"Head": view.Head("eTAS Portal")}
		if err := view.Render(w, "home", "home", data, view.CacheDefault); err != nil {
			zap.S().Errorw("home template render failed", "err", err)
		}
	})
}

func init() {
	component.Register(&Comp{})
}

// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  main() builds the shared
// App container, then MountAll() initialises every component and lets it
// claim its routes on the root chi router.

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/ica-so/etas-portal/internal/applicant"
	"github.com/ica-so/etas-portal/internal/config"
	"github.com/ica-so/etas-portal/internal/export"
	"github.com/ica-so/etas-portal/internal/storage"
)

// App bundles the shared services a component may need.  Built once in
// main() after config, database, and pipeline bootstrap.
type App struct {
	Cfg      *config.Config
	Repo     *applicant.Repository
	Store    storage.Store
	Exporter *export.Coordinator
}

// Component contract.
//
// Register should claim BOTH page and API endpoints on the root router:
//
//	func (c *Component) Register(app *component.App, r chi.Router) {
//	    r.Get("/apply", c.handleGET)
//	    r.Post("/apply", c.handlePOST)
//	}
type Component interface {
	Name() string
	Register(app *App, r chi.Router)
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// MountAll hands every registered component the shared App and the root
// router.  Components are mounted in name order so route registration is
// deterministic across restarts.
func MountAll(app *App, r chi.Router) {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		registry[n].Register(app, r)
	}
}

// Lookup returns a registered component or nil.  Used by tests.
func Lookup(name string) Component {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

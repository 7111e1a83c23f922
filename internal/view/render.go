// internal/view/render.go
//
// Central view engine: template lookup, func-map injection, and an LRU of
// parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Render         – write rendered HTML to an http.ResponseWriter.
//   - RenderToString – return template.HTML (e-mails, fragments).
//
// Templates live under `components/<comp>/templates/<name>.html`, resolved
// relative to the configured root.  All templates in the same directory are
// parsed as one set so sub-templates ({{ template "row" . }}) work
// out-of-the-box.
//
// execName() chooses the best template to execute:
//   – If the set contains "<name>.html", we run that (file has no define).
//   – Else we fall back to "<name>" (root template defined via {{ define }}).
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ica-so/etas-portal/internal/cache"
)

//
// cache definitions
//

// CachePolicy hints how the caller wants this template cached.
type CachePolicy int

const (
	CacheDefault CachePolicy = iota // obey global TTL
	CacheSkip                       // never cache (CSRF-bearing pages)
)

// Parsed template sets; tweak capacity when perf-testing.
var tmplLRU = cache.New(256)

// rootDir is where the components/ tree lives.  Set once at startup.
var rootDir = "."

// Init points the engine at the repository root.
func Init(root string) { rootDir = root }

//
// public helpers
//

// Render executes the template set and streams it to w.
func Render(w http.ResponseWriter, comp, name string, data any, policy CachePolicy) error {
	t, err := load(comp, name, policy)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, execName(t, name), data)
}

// RenderToString executes and returns HTML (used by e-mail generators).
func RenderToString(comp, name string, data any) (template.HTML, error) {
	t, err := load(comp, name, CacheDefault)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

//
// internal: load
//

// load finds and (if necessary) parses the template set for the given
// component and base name, obeying the provided cache policy.
func load(comp, name string, policy CachePolicy) (*template.Template, error) {
	key := comp + "::" + name

	if policy != CacheSkip {
		if v, ok := tmplLRU.Get(key); ok {
			return v.(*template.Template), nil
		}
	}

	base := filepath.Join(rootDir, "components", comp, "templates", name+".html")
	if _, err := os.Stat(base); err != nil {
		return nil, os.ErrNotExist
	}

	// Parse all *.html in the same directory so sub-templates work.
	pattern := filepath.Join(filepath.Dir(base), "*.html")
	t, err := template.New(name).Funcs(funcMap()).ParseGlob(pattern)
	if err != nil {
		return nil, err
	}

	if policy != CacheSkip {
		tmplLRU.Add(key, t)
	}
	return t, nil
}

//
// func-map builder
//

func funcMap() template.FuncMap {
	return template.FuncMap{
		"dict":  dict,
		"upper": strings.ToUpper,
	}
}

//
// helpers
//

// execName picks the template name to execute.
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

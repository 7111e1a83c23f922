// internal/view/page.go
//
// Shared page chrome: every HTML endpoint builds its <head> through the
// head.Builder so charset, viewport, and stylesheet tags stay consistent
// and deduplicated.  Components may push extra Meta/Link tags before
// rendering.

package view

import "github.com/ica-so/etas-portal/internal/head"

// Head returns a Builder preloaded with the portal's standard tags.
func Head(title string) *head.Builder {
	b := head.New()
	b.SetTitle(title)
	b.Meta(`<meta charset="utf-8">`)
	b.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	b.Link(`<link rel="stylesheet" href="/media/static/site.css">`)
	return b
}

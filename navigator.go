package main

import (
	"sync"

	"github.com/go-authgate/bet-console/apiclient"
	"github.com/go-authgate/bet-console/tui"
)

// viewRouter tracks which console surface is showing. The client sends it
// to the entry surface when a session ends.
type viewRouter struct {
	mu      sync.Mutex
	current string
	d       tui.Displayer
}

var _ apiclient.Navigator = (*viewRouter)(nil)

func newViewRouter(d tui.Displayer) *viewRouter {
	return &viewRouter{current: apiclient.EntryPath, d: d}
}

func (r *viewRouter) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *viewRouter) Navigate(path string) {
	r.mu.Lock()
	changed := r.current != path
	r.current = path
	r.mu.Unlock()
	if changed {
		r.d.Navigated(path)
	}
}

// show moves to a command's surface without announcing it.
func (r *viewRouter) show(path string) {
	r.mu.Lock()
	r.current = path
	r.mu.Unlock()
}

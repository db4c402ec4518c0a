// Package inspect serves a read-only JSON view of a container.
//
//	GET /entries         resolved and defined names
//	GET /entries/{name}  one name; 404 when Has reports false
//	GET /stats           instrument snapshot
//
// Nothing here constructs an entry.
package inspect

import (
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/km-arc/go-di/framework/container"
	"github.com/km-arc/go-di/framework/stats"
)

// Handler is an http.Handler over one container.
type Handler struct {
	mux   chi.Router
	c     *container.Container
	stats stats.Receiver
}

// lister is implemented by sources that can enumerate their names.
type lister interface {
	Names() []string
}

// New creates a Handler for c. A nil r serves an empty stats object.
func New(c *container.Container, r stats.Receiver) *Handler {
	if r == nil {
		r = stats.NilReceiver()
	}
	h := &Handler{mux: chi.NewRouter(), c: c, stats: r}
	h.mux.Use(middleware.Recoverer)
	h.mux.Get("/entries", h.entries)
	h.mux.Get("/entries/{name}", h.entry)
	h.mux.Get("/stats", h.snapshot)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.mux.ServeHTTP(w, req)
}

type entriesView struct {
	Resolved []string `json:"resolved"`
	Defined  []string `json:"defined,omitempty"`
}

type entryView struct {
	Name       string `json:"name"`
	Resolved   bool   `json:"resolved"`
	Definition string `json:"definition,omitempty"`
}

func (h *Handler) entries(w http.ResponseWriter, _ *http.Request) {
	view := entriesView{Resolved: h.c.Entries()}
	if l, ok := h.c.Source().(lister); ok {
		view.Defined = l.Names()
	}
	success(w, view)
}

func (h *Handler) entry(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")

	ok, err := h.c.Has(name)
	var invalid container.InvalidArgumentError
	switch {
	case errors.As(err, &invalid):
		fail(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		fail(w, http.StatusInternalServerError, err.Error())
		return
	case !ok:
		fail(w, http.StatusNotFound, container.NotFoundError{Name: name}.Error())
		return
	}

	resolved := h.c.Entries()
	i := sort.SearchStrings(resolved, name)
	view := entryView{Name: name, Resolved: i < len(resolved) && resolved[i] == name}
	if def, found := h.c.Source().GetDefinition(name); found {
		view.Definition = def.String()
	}
	success(w, view)
}

func (h *Handler) snapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.stats.WriteJSON(w)
}

// Package introspect exposes a read-only HTTP view of a container:
// which components were included, their scopes and slot states, and why
// excluded components were filtered out. It is a debugging surface, not
// a management API; nothing it serves can mutate the container.
package introspect

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GoCodeAlone/weld"
)

// ComponentStatus is the wire form of one included component.
type ComponentStatus struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Scope   string `json:"scope"`
	Lazy    bool   `json:"lazy"`
	Primary bool   `json:"primary,omitempty"`
	State   string `json:"state"`
}

type handler struct {
	container *weld.Container
}

// NewHandler builds the introspection router for a container.
// Routes:
//
//	GET /components        lists every included component with its slot state
//	GET /components/{name} returns one component by id
//	GET /excluded          lists declared components that were filtered out
func NewHandler(container *weld.Container) http.Handler {
	h := &handler{container: container}

	r := chi.NewRouter()
	r.Get("/components", h.listComponents)
	r.Get("/components/{name}", h.getComponent)
	r.Get("/excluded", h.listExcluded)
	return r
}

func (h *handler) listComponents(w http.ResponseWriter, r *http.Request) {
	components := h.container.Registry().Components()
	out := make([]ComponentStatus, 0, len(components))
	for _, d := range components {
		out = append(out, h.status(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) getComponent(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for _, d := range h.container.Registry().Components() {
		if d.ID == name {
			writeJSON(w, http.StatusOK, h.status(d))
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "component not found", "id": name})
}

func (h *handler) listExcluded(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.container.Registry().Excluded())
}

func (h *handler) status(d *weld.ComponentDescriptor) ComponentStatus {
	state, _ := h.container.State(d.ID)
	return ComponentStatus{
		ID:      d.ID,
		Type:    d.Type.String(),
		Scope:   d.Scope.String(),
		Lazy:    d.Lazy,
		Primary: d.Primary,
		State:   state.String(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

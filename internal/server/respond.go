package server

import (
	"encoding/json"
	"net/http"

	"github.com/Sternrassler/jikan-client/pkg/fallback"
)

// stateStatic marks responses built only from bundled data, with no live
// fetch behind them.
const stateStatic = "static"

// Envelope is the body of every view response.
type Envelope struct {
	Data   any    `json:"data"`
	State  string `json:"state"`
	Notice string `json:"notice,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// statusFor maps a view state to the HTTP status.
func statusFor(state fallback.State) int {
	switch state {
	case fallback.StateNotFound:
		return http.StatusNotFound
	case fallback.StateUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}

func writeSnapshot[T any](w http.ResponseWriter, snap fallback.Snapshot[T]) {
	env := Envelope{State: string(snap.State), Notice: snap.Notice}
	if snap.HasData() {
		env.Data = snap.Data
	}
	writeJSON(w, statusFor(snap.State), env)
}

func writeStatic(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Data: data, State: stateStatic})
}

// render waits for a view within the render budget and writes its snapshot.
func render[T any](s *Server, w http.ResponseWriter, r *http.Request, view *fallback.View[T]) {
	snap, _ := view.WaitFor(r.Context(), s.opts.RenderBudget)
	writeSnapshot(w, snap)
}

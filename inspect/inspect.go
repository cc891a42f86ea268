// Package inspect serves a read-only JSON view of a bean registry over HTTP.
//
// Routes:
//
//	GET /beans              all entries, optionally filtered with ?state=ready|failed|...
//	GET /beans/{name}       a single entry, 404 if the name is unknown
package inspect

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/0xalexb/hjarta-beans/beans"
	"github.com/0xalexb/hjarta-beans/logging"

	"github.com/goccy/go-json"
)

// EntrySource provides registry snapshots. *beans.Registry implements it.
type EntrySource interface {
	Entries() []beans.Entry
}

// Bean is the JSON form of a registry entry.
type Bean struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Type  string `json:"type,omitempty"`
	Error string `json:"error,omitempty"`
}

// Summary is the response of GET /beans.
type Summary struct {
	Total  int    `json:"total"`
	Ready  int    `json:"ready"`
	Failed int    `json:"failed"`
	Beans  []Bean `json:"beans"`
}

type errorBody struct {
	Error string `json:"error"`
}

type handler struct {
	source EntrySource
	logger *slog.Logger
}

// NewHandler creates the diagnostics handler. Request logging and panic recovery are left
// to the listener middleware wrapped around it.
func NewHandler(source EntrySource, logger *slog.Logger) http.Handler {
	h := &handler{source: source, logger: logging.ForComponent(logger, "inspect")}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /beans", h.list)
	mux.HandleFunc("GET /beans/{name}", h.get)

	return mux
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")

	summary := Summary{Beans: []Bean{}}

	for _, entry := range h.source.Entries() {
		switch entry.State {
		case beans.StateReady:
			summary.Ready++
		case beans.StateFailed:
			summary.Failed++
		case beans.StateUnresolved, beans.StateConstructing:
		}

		summary.Total++

		if state != "" && entry.State.String() != state {
			continue
		}

		summary.Beans = append(summary.Beans, toBean(entry))
	}

	h.write(w, http.StatusOK, summary)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	for _, entry := range h.source.Entries() {
		if entry.Name == name {
			h.write(w, http.StatusOK, toBean(entry))

			return
		}
	}

	h.write(w, http.StatusNotFound, errorBody{Error: fmt.Sprintf("bean %q not found", name)})
}

func (h *handler) write(w http.ResponseWriter, status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		h.logger.Error("encoding response", "error", err)

		status = http.StatusInternalServerError
		payload = []byte(`{"error":"internal error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, _ = w.Write(payload)
}

func toBean(entry beans.Entry) Bean {
	bean := Bean{Name: entry.Name, State: entry.State.String(), Type: entry.Type}
	if entry.Err != nil {
		bean.Error = entry.Err.Error()
	}

	return bean
}

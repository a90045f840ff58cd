// Package emulator serves an in-memory rendition of the Data Integration REST
// API for local development and end-to-end tests.
package emulator

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dictl-dev/dictl/internal/responses"
	"github.com/dictl-dev/dictl/internal/types"
	"github.com/dictl-dev/dictl/service/internal/store"
	"github.com/dictl-dev/dictl/service/internal/workrequest"
)

// Options configure NewRouter. Zero values get working defaults.
type Options struct {
	Logger           log.Logger
	Config           Config
	WorkRequestSteps int
	Registry         *prometheus.Registry
	Now              func() time.Time
}

// NewRouter returns the emulator's HTTP routes.
func NewRouter(opts Options) *mux.Router {
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	h := handler{
		logger:   opts.Logger,
		db:       store.NewMemoryClient(),
		tracker:  workrequest.NewTracker(opts.WorkRequestSteps, opts.Config.FailOperations, opts.Now),
		now:      opts.Now,
		requests: newRequestCounter(opts.Registry),
	}
	h.seed(opts.Config)

	r := mux.NewRouter()
	r.Use(commonMiddleware)
	r.Use(requestIDMiddleware)
	r.Use(h.requests.middleware)

	r.HandleFunc("/health", h.healthCheck).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.HandleFunc(types.WorkRequest.Collection, h.listWorkRequests).Methods(http.MethodGet)
	r.HandleFunc(types.WorkRequest.ItemPath(), h.getWorkRequest).Methods(http.MethodGet)
	r.HandleFunc(types.WorkspaceAction("start"), h.startWorkspace).Methods(http.MethodPost)
	r.HandleFunc(types.WorkspaceAction("stop"), h.stopWorkspace).Methods(http.MethodPost)

	for _, res := range types.Catalog {
		if res.Name == types.WorkRequest.Name {
			continue
		}
		r.HandleFunc(res.Collection, h.list(res)).Methods(http.MethodGet)
		r.HandleFunc(res.ItemPath(), h.get(res)).Methods(http.MethodGet)
		if res.ReadOnly {
			continue
		}
		r.HandleFunc(res.Collection, h.create(res)).Methods(http.MethodPost)
		r.HandleFunc(res.ItemPath(), h.update(res)).Methods(http.MethodPut)
		r.HandleFunc(res.ItemPath(), h.delete(res)).Methods(http.MethodDelete)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		writeError(w, http.StatusNotFound, codeNotFound, "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", r.Method+" is not supported on "+r.URL.Path)
	})
	return r
}

func commonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware echoes opc-request-id, generating one when the client
// sent none.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(responses.HeaderOpcRequestID)
		if id == "" {
			id = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
			r.Header.Set(responses.HeaderOpcRequestID, id)
		}
		w.Header().Set(responses.HeaderOpcRequestID, id)
		next.ServeHTTP(w, r)
	})
}

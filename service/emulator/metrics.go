package emulator

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

type requestCounter struct {
	total *prometheus.CounterVec
}

func newRequestCounter(reg prometheus.Registerer) requestCounter {
	c := requestCounter{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dictl",
			Subsystem: "emulator",
			Name:      "requests_total",
			Help:      "Requests served, by method, route template and status code.",
		}, []string{"method", "route", "code"}),
	}
	reg.MustRegister(c.total)
	return c
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (c requestCounter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unknown"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		c.total.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
	})
}

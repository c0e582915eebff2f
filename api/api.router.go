package api

import (
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/relaymon/relayhub/api/resources"
	"github.com/relaymon/relayhub/internal/monitoring"
	"github.com/rs/cors"
)

// Options configures the router's middleware
type Options struct {
	// AccessLog receives one combined-format line per readings request. Nil disables it.
	AccessLog      io.Writer
	AllowedOrigins []string
}

type Router struct {
	anyOrigin  bool
	router     *mux.Router
	handler    http.Handler
	resources  *resources.Resources
	monitoring *monitoring.Service
	cors       *cors.Cors
	accessLog  io.Writer
}

func NewRouter(res *resources.Resources, mon *monitoring.Service, opts Options) *Router {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := &Router{
		anyOrigin:  containsWildcard(origins),
		router:     mux.NewRouter(),
		resources:  res,
		monitoring: mon,
		accessLog:  opts.AccessLog,
		cors: cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}),
	}

	r.setupRoutes()
	r.handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r.router)
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Operational routes
	api.HandleFunc("/health", r.resources.HealthCheck).Methods(http.MethodGet)
	api.Handle("/metrics", r.monitoring.Handler()).Methods(http.MethodGet)
	api.HandleFunc("/swagger.json", r.resources.SwaggerDoc).Methods(http.MethodGet)

	// Readings
	readings := r.readingsHandler()
	api.Handle("/readings", readings).Methods(http.MethodGet)

	// Thresholds
	fetch := r.monitoring.Instrument("threshold_fetch", http.HandlerFunc(r.resources.Thresholds.GetThreshold))
	update := r.monitoring.Instrument("threshold_update", http.HandlerFunc(r.resources.Thresholds.UpdateThreshold))

	thresholds := api.PathPrefix("/thresholds").Subrouter()
	thresholds.Use(r.allowAnyOrigin, r.cors.Handler)
	thresholds.Handle("", fetch).Methods(http.MethodGet, http.MethodOptions)
	thresholds.Handle("", update).Methods(http.MethodPost)

	// Paths served by the previous PHP deployment, still polled by dashboards and relay firmware
	r.router.Handle("/relay_data/load_data.php", readings).Methods(http.MethodGet)

	legacy := r.router.PathPrefix("/threshold_data").Subrouter()
	legacy.Use(r.allowAnyOrigin, r.cors.Handler)
	legacy.Handle("/load_threshold.php", fetch).Methods(http.MethodGet, http.MethodOptions)
	legacy.Handle("/update_threshold.php", update).Methods(http.MethodPost, http.MethodOptions)
}

// readingsHandler stacks gzip, metrics and the diagnostic access log around ListReadings.
func (r *Router) readingsHandler() http.Handler {
	var h http.Handler = http.HandlerFunc(r.resources.Readings.ListReadings)
	h = handlers.CompressHandler(h)
	h = r.monitoring.Instrument("readings", h)
	if r.accessLog != nil {
		h = handlers.CombinedLoggingHandler(r.accessLog, h)
	}
	return h
}

// allowAnyOrigin sends the wildcard origin on every threshold response when all
// origins are allowed; rs/cors only answers requests that carry an Origin header.
func (r *Router) allowAnyOrigin(next http.Handler) http.Handler {
	if !r.anyOrigin {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, req)
	})
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

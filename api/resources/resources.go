// FilePath: api/resources/resources.go
package resources

import (
	"net/http"

	"github.com/gorilla/schema"
	"github.com/relaymon/relayhub/internal/service"
)

// Options tune how handlers present errors
type Options struct {
	// ExposeDBErrors appends driver error text to 500 responses.
	ExposeDBErrors bool
}

// Resources holds all HTTP resource handlers
type Resources struct {
	Readings    *ReadingHandlers
	Thresholds  *ThresholdHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *service.Service, opts Options) *Resources {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &Resources{
		Readings:    &ReadingHandlers{service: svc, decoder: decoder, opts: opts},
		Thresholds:  &ThresholdHandlers{service: svc, opts: opts},
		HealthCheck: defaultHealthCheck,
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

func defaultHealthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

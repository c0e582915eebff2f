package resources

import (
	"encoding/json"
	"net/http"

	"github.com/relaymon/relayhub/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

func newRequestID() string {
	return nuts.NID("req", 12)
}

// present converts any service error into the APIError sent to the client.
func (o Options) present(err error) *errors.APIError {
	apiErr := errors.As(err)
	if o.ExposeDBErrors && (apiErr.Type == errors.ErrorTypeDBPrepare || apiErr.Type == errors.ErrorTypeDBExec) {
		apiErr.WithDriverDetail()
	}
	return apiErr
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	if err.Code >= http.StatusInternalServerError {
		nuts.L.Errorf("[API] %s (request %s)", err.Error(), err.RequestID)
	} else {
		nuts.L.Warnf("[API] %s (request %s)", err.Error(), err.RequestID)
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

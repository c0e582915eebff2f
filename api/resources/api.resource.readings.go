// FilePath: api/resources/api.resource.readings.go
package resources

import (
	"net/http"

	"github.com/gorilla/schema"
	"github.com/relaymon/relayhub/internal/errors"
	"github.com/relaymon/relayhub/internal/models"
	"github.com/relaymon/relayhub/internal/service"
)

// ReadingHandlers encapsulates the reading-related HTTP handlers
type ReadingHandlers struct {
	service *service.Service
	decoder *schema.Decoder
	opts    Options
}

// @Summary List readings
// @Description Get DHT11 readings and relay states recorded between two days, newest first
// @Tags readings
// @Produce json
// @Param start_date query string false "First day (YYYY-MM-DD), defaults to yesterday"
// @Param end_date query string false "Last day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} models.ReadingsResponse
// @Failure 400 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Router /readings [get]
func (h *ReadingHandlers) ListReadings(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()

	var query models.ReadingsQuery
	if err := h.decoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewInvalidFormatError(service.MsgInvalidFormat, err).WithRequestID(requestID))
		return
	}

	readings, err := h.service.QueryReadings(r.Context(), query)
	if err != nil {
		respondWithError(w, h.opts.present(err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, models.ReadingsResponse{
		Status: errors.StatusSuccess,
		Data:   readings,
	})
}

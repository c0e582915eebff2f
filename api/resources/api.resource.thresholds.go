// FilePath: api/resources/api.resource.thresholds.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/relaymon/relayhub/internal/errors"
	"github.com/relaymon/relayhub/internal/models"
	"github.com/relaymon/relayhub/internal/service"
)

// maxThresholdBody caps the update body; the payload is two numbers.
const maxThresholdBody = 4 << 10

// ThresholdHandlers encapsulates the threshold-related HTTP handlers
type ThresholdHandlers struct {
	service *service.Service
	opts    Options
}

// @Summary Get current threshold
// @Description Get the most recent temperature/humidity threshold pair
// @Tags thresholds
// @Produce json
// @Success 200 {object} models.ThresholdResponse
// @Failure 404 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Router /thresholds [get]
func (h *ThresholdHandlers) GetThreshold(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()

	threshold, err := h.service.CurrentThreshold(r.Context())
	if err != nil {
		respondWithError(w, h.opts.present(err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, models.ThresholdResponse{
		Status:        errors.StatusSuccess,
		TempThreshold: threshold.TempThreshold,
		HumThreshold:  threshold.HumThreshold,
	})
}

// @Summary Update threshold
// @Description Overwrite the current temperature/humidity threshold pair
// @Tags thresholds
// @Accept json
// @Produce json
// @Param threshold body models.ThresholdUpdate true "New thresholds"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Router /thresholds [post]
func (h *ThresholdHandlers) UpdateThreshold(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()

	var update models.ThresholdUpdate
	body := http.MaxBytesReader(w, r.Body, maxThresholdBody)
	if err := json.NewDecoder(body).Decode(&update); err != nil {
		respondWithError(w, errors.NewMissingParametersError(service.MsgMissingParameters, err).WithRequestID(requestID))
		return
	}

	if err := h.service.UpdateThreshold(r.Context(), update); err != nil {
		respondWithError(w, h.opts.present(err).AsFailed().WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": errors.StatusSuccess})
}

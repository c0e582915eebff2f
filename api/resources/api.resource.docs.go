package resources

import (
	"net/http"

	"github.com/relaymon/relayhub/docs"
	"github.com/swaggo/swag"
)

// SwaggerDoc serves the registered OpenAPI document
func (r *Resources) SwaggerDoc(w http.ResponseWriter, req *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		http.Error(w, "swagger document unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

package handlers

import (
	"net/http"

	"github.com/fittrack/apiserver/types"
)

// Healthz reports that the process is serving requests.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ActivityTypeResponse describes one supported activity type.
type ActivityTypeResponse struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// ListActivityTypes returns every activity type with its display label.
func ListActivityTypes(w http.ResponseWriter, _ *http.Request) {
	all := types.ActivityTypes()
	resp := make([]ActivityTypeResponse, 0, len(all))
	for _, at := range all {
		resp = append(resp, ActivityTypeResponse{Name: at.String(), Label: at.Label()})
	}
	writeJSON(w, http.StatusOK, resp)
}

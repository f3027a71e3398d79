package utils

import (
	"encoding/json"
	"net/http"

	"github.com/opencluster/framework-job-scheduler/models/common"
)

// JSONResponse writes result as a JSON body with status 200.
func JSONResponse(w http.ResponseWriter, result interface{}) {
	body, err := json.Marshal(result)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// StatusResponse writes status as a JSON body with its own status code.
func StatusResponse(w http.ResponseWriter, status *common.Status) {
	body, err := json.Marshal(status)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status.Code)
	_, _ = w.Write(body)
}

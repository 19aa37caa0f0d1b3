package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/camden-git/dwhbackend/services"
)

// APIErrorSource points at the request field an error refers to.
type APIErrorSource struct {
	Pointer string `json:"pointer"`
}

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string          `json:"code"`
	Status string          `json:"status"`
	Detail string          `json:"detail"`
	Source *APIErrorSource `json:"source,omitempty"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	writeAPIErrors(w, httpStatus, []APIErrorDetail{
		{
			Code:   code,
			Status: strconv.Itoa(httpStatus),
			Detail: detail,
		},
	})
}

// WriteValidationError writes a 400 response with one entry per field error.
func WriteValidationError(w http.ResponseWriter, verr *services.ValidationError) {
	status := strconv.Itoa(http.StatusBadRequest)
	details := make([]APIErrorDetail, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		d := APIErrorDetail{
			Code:   fe.Code,
			Status: status,
			Detail: fe.Message,
		}
		if fe.Field != "" {
			d.Source = &APIErrorSource{Pointer: fe.Field}
		}
		details = append(details, d)
	}
	writeAPIErrors(w, http.StatusBadRequest, details)
}

func writeAPIErrors(w http.ResponseWriter, httpStatus int, details []APIErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(APIErrorResponse{Errors: details}); err != nil {
		slog.Error("Error encoding API error response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("Error encoding JSON response", "error", err)
		}
	}
}

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/camden-git/dwhbackend/services"
)

// AckMessage is the fixed acknowledgement returned after a successful write.
const AckMessage = "All good, everything has been saved"

// Ingester runs the upsert/link sequence for a validated payload.
type Ingester interface {
	Ingest(ctx context.Context, p services.Payload) (*services.Result, error)
}

// IngestResponse is the body of a successful ingestion.
type IngestResponse struct {
	Message     string `json:"message"`
	IngestionID string `json:"ingestion_id"`
}

// IngestHandler serves the ingestion endpoint.
type IngestHandler struct {
	Service      Ingester
	MaxBodyBytes int64
}

// Ingest validates the request body and hands it to the ingestion service.
// Invalid bodies get a 400 and never reach storage.
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	log := slog.With("request_id", middleware.GetReqID(r.Context()))

	body := r.Body
	if h.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteAPIError(w, http.StatusBadRequest, services.CodeParseError, "Request body too large")
			return
		}
		WriteAPIError(w, http.StatusBadRequest, services.CodeParseError, "Failed to read request body")
		return
	}

	payload, err := services.DecodePayload(raw)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			log.Warn("Rejected ingestion payload", "error", verr)
			WriteValidationError(w, verr)
			return
		}
		WriteAPIError(w, http.StatusBadRequest, services.CodeParseError, err.Error())
		return
	}

	res, err := h.Service.Ingest(r.Context(), payload)
	if err != nil {
		log.Error("Error ingesting payload", "first_name", payload.FirstName, "last_name", payload.LastName, "error", err)
		WriteAPIError(w, http.StatusInternalServerError, "storage_error", "Failed to save the payload")
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{Message: AckMessage, IngestionID: res.IngestionID})
}

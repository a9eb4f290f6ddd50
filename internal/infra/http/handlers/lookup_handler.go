package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-cep/internal/entity"
	"github.com/xavierca1/ligue-cep/internal/usecase"
)

type LookupPublisher interface {
	PublishLookup(ctx context.Context, zipCode string) (string, error)
}

// LookupHandler enfileira consultas para o worker (POST /lookups).
type LookupHandler struct {
	Producer LookupPublisher
}

func NewLookupHandler(producer LookupPublisher) *LookupHandler {
	return &LookupHandler{Producer: producer}
}

type EnqueueLookupRequest struct {
	ZipCode string `json:"zip_code"`
}

func (h *LookupHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var input EnqueueLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	if !entity.VerifyCEP(input.ZipCode) {
		writeErrorResponse(w, http.StatusBadRequest, usecase.ErrInvalidZipCode.Code, usecase.ErrInvalidZipCode.Message)
		return
	}

	requestID, err := h.Producer.PublishLookup(r.Context(), input.ZipCode)
	if err != nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "QUEUE_ERROR", "Erro ao enfileirar consulta")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"request_id": requestID})
}

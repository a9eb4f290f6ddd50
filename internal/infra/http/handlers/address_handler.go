package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-cep/internal/entity"
	"github.com/xavierca1/ligue-cep/internal/usecase"
)

type AddressSearcher interface {
	Verify(zipCode string) bool
	Execute(ctx context.Context, zipCode string) (*entity.Address, error)
}

type AddressHandler struct {
	SearchUC AddressSearcher
}

func NewAddressHandler(uc AddressSearcher) *AddressHandler {
	return &AddressHandler{SearchUC: uc}
}

type ValidateResponse struct {
	CEP        string `json:"cep"`
	Valid      bool   `json:"valid"`
	Normalized string `json:"normalized"`
}

// GetAddress (GET /cep/{cep})
func (h *AddressHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	zipCode := chi.URLParam(r, "cep")

	if !h.SearchUC.Verify(zipCode) {
		writeErrorResponse(w, http.StatusBadRequest, usecase.ErrInvalidZipCode.Code, usecase.ErrInvalidZipCode.Message)
		return
	}

	address, err := h.SearchUC.Execute(r.Context(), zipCode)
	if err != nil {
		if usecase.IsZipCodeNotFound(err) {
			writeErrorResponse(w, http.StatusNotFound, usecase.ErrZipCodeNotFound.Code, err.Error())
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Erro ao consultar CEP")
		return
	}

	writeJSON(w, http.StatusOK, address)
}

// Validate (GET /cep/{cep}/validate) só olha o formato, não consulta ninguém.
func (h *AddressHandler) Validate(w http.ResponseWriter, r *http.Request) {
	zipCode := chi.URLParam(r, "cep")

	writeJSON(w, http.StatusOK, ValidateResponse{
		CEP:        zipCode,
		Valid:      h.SearchUC.Verify(zipCode),
		Normalized: entity.NormalizeCEP(zipCode),
	})
}

package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-cep/internal/infra/integration/cep"
	"github.com/xavierca1/ligue-cep/internal/infra/stats"
)

type ProviderLister interface {
	Providers() []cep.Provider
}

type StatsHandler struct {
	Store     stats.Store
	Providers ProviderLister
}

func NewStatsHandler(store stats.Store, providers ProviderLister) *StatsHandler {
	return &StatsHandler{Store: store, Providers: providers}
}

type ProviderInfo struct {
	Priority int    `json:"priority"`
	Name     string `json:"name"`
	BaseURL  string `json:"base_url"`
}

// ListProviders (GET /providers)
func (h *StatsHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers := h.Providers.Providers()

	out := make([]ProviderInfo, 0, len(providers))
	for i, p := range providers {
		out = append(out, ProviderInfo{Priority: i + 1, Name: p.Name, BaseURL: p.BaseURL})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetStats (GET /stats)
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Store.Snapshot(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "STATS_ERROR", "Erro ao ler estatísticas")
		return
	}

	if snapshot == nil {
		snapshot = make(map[string]stats.Counters)
	}

	// provedores sem nenhuma consulta aparecem zerados
	for _, p := range h.Providers.Providers() {
		if _, ok := snapshot[p.Name]; !ok {
			snapshot[p.Name] = stats.Counters{}
		}
	}
	writeJSON(w, http.StatusOK, snapshot)
}

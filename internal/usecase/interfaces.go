package usecase

import (
	"context"

	"github.com/xavierca1/ligue-cep/internal/entity"
	"github.com/xavierca1/ligue-cep/internal/infra/integration/cep"
	"github.com/xavierca1/ligue-cep/internal/infra/stats"
)

// AddressGateway é o client dos provedores de CEP.
type AddressGateway interface {
	Providers() []cep.Provider
	Consult(ctx context.Context, p cep.Provider, zipCode string) *entity.Address
}

type StatsRecorder interface {
	Record(ctx context.Context, ev stats.Event) error
}

// Options da resolução. Log liga as mensagens de diagnóstico.
type Options struct {
	Log bool `json:"log"`
}

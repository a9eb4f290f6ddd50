package usecase

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/xavierca1/ligue-cep/internal/entity"
	"github.com/xavierca1/ligue-cep/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-cep/internal/infra/integration/cep"
	"github.com/xavierca1/ligue-cep/internal/infra/logging"
	"github.com/xavierca1/ligue-cep/internal/infra/stats"
)

// Logger monta o logger de diagnóstico conforme as opções (stdout).
func (o Options) Logger() logging.Logger {
	return logging.New(o.Log, os.Stdout)
}

type SearchAddressUseCase struct {
	Gateway AddressGateway
	Stats   StatsRecorder
	Logger  logging.Logger
}

func NewSearchAddressUseCase(gateway AddressGateway, statsRecorder StatsRecorder, logger logging.Logger) *SearchAddressUseCase {
	if logger == nil {
		logger = logging.Nop
	}
	return &SearchAddressUseCase{
		Gateway: gateway,
		Stats:   statsRecorder,
		Logger:  logger,
	}
}

// Verify valida o formato do CEP ("NNNNN-NNN" ou "NNNNNNNN").
func (uc *SearchAddressUseCase) Verify(zipCode string) bool {
	valid := entity.VerifyCEP(zipCode)

	result := "Invalid"
	if valid {
		result = "Valid"
	}
	uc.Logger.Log(fmt.Sprintf("CEP validation for %s: %s", zipCode, result))

	return valid
}

// Execute dispara todos os provedores de uma vez, mas escolhe o resultado na
// ordem de prioridade: ViaCEP só perde se não achar, mesmo que o BrasilAPI
// responda antes. Os que ficaram para trás são cancelados e ignorados.
func (uc *SearchAddressUseCase) Execute(ctx context.Context, zipCode string) (*entity.Address, error) {
	providers := uc.Gateway.Providers()

	lookupCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]chan *entity.Address, len(providers))
	for i, p := range providers {
		results[i] = make(chan *entity.Address, 1)
		go func(p cep.Provider, out chan<- *entity.Address) {
			out <- uc.Gateway.Consult(lookupCtx, p, zipCode)
		}(p, results[i])
	}

	statsCtx := context.WithoutCancel(ctx)
	var missed []string
	for i, p := range providers {
		address := <-results[i]
		if address == nil {
			missed = append(missed, p.Name)
			continue
		}

		for _, name := range missed {
			uc.record(statsCtx, name, false)
		}
		uc.record(statsCtx, p.Name, true)
		middleware.RecordResolution(p.Name)
		return address, nil
	}

	// ctx encerrado por quem chamou: os nil vieram do cancelamento, não dos provedores.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, name := range missed {
		uc.record(statsCtx, name, false)
	}
	uc.Logger.Log("Error: " + ErrZipCodeNotFound.Message)
	middleware.RecordResolution("")
	return nil, ErrZipCodeNotFound
}

func (uc *SearchAddressUseCase) record(ctx context.Context, provider string, won bool) {
	if uc.Stats == nil {
		return
	}
	if err := uc.Stats.Record(ctx, stats.Event{Provider: provider, Won: won, At: time.Now()}); err != nil {
		uc.Logger.Log(fmt.Sprintf("Error: stats %s: %s", provider, err.Error()))
	}
}

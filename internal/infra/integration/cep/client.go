package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-cep/internal/entity"
	"github.com/xavierca1/ligue-cep/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-cep/internal/infra/logging"
)

// HTTPGetter é tudo que o client precisa do transporte.
type HTTPGetter interface {
	Get(ctx context.Context, url string) (int, []byte, error)
}

type httpGetter struct {
	http *http.Client
}

// NewHTTPGetter usa um *http.Client com o timeout informado (0 = sem timeout).
func NewHTTPGetter(timeout time.Duration) HTTPGetter {
	return &httpGetter{http: &http.Client{Timeout: timeout}}
}

func (g *httpGetter) Get(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "LigueCep/1.0")

	resp, err := g.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}
	return resp.StatusCode, body, nil
}

type Client struct {
	http      HTTPGetter
	logger    logging.Logger
	providers []Provider
}

func NewClient(getter HTTPGetter, logger logging.Logger, providers []Provider) *Client {
	if logger == nil {
		logger = logging.Nop
	}
	if providers == nil {
		providers = DefaultProviders()
	}
	return &Client{
		http:      getter,
		logger:    logger,
		providers: providers,
	}
}

// Providers devolve a tabela na ordem de prioridade.
func (c *Client) Providers() []Provider {
	out := make([]Provider, len(c.providers))
	copy(out, c.providers)
	return out
}

// Consult consulta um provedor. Qualquer falha (rede, status, JSON, "erro")
// vira nil: um provedor fora do ar nunca derruba a resolução.
func (c *Client) Consult(ctx context.Context, p Provider, zipCode string) *entity.Address {
	c.logger.Log(fmt.Sprintf("Consulting %s...", p.Name))
	start := time.Now()

	normalized := entity.NormalizeCEP(zipCode)

	status, body, err := c.http.Get(ctx, p.URL(normalized))
	if err != nil {
		// Cancelado por quem chamou (outro provedor já venceu): não é falha.
		if ctx.Err() != nil {
			middleware.RecordProviderLookup(p.Name, middleware.OutcomeCancelled, time.Since(start))
			return nil
		}
		c.logger.Log(fmt.Sprintf("Error: %s", err.Error()))
		middleware.RecordProviderLookup(p.Name, middleware.OutcomeError, time.Since(start))
		return nil
	}

	if status < 200 || status > 299 {
		c.logger.Log(fmt.Sprintf("Error: Request failed with status code %d", status))
	}

	var payload rawResponse
	if status == http.StatusOK {
		if err := json.Unmarshal(body, &payload); err != nil {
			c.logger.Log(fmt.Sprintf("Error: %s", err.Error()))
			middleware.RecordProviderLookup(p.Name, middleware.OutcomeError, time.Since(start))
			return nil
		}
	}

	address, ok := extractAddress(p, payload, status, normalized)
	if !ok {
		middleware.RecordProviderLookup(p.Name, middleware.OutcomeNotFound, time.Since(start))
		return nil
	}

	middleware.RecordProviderLookup(p.Name, middleware.OutcomeFound, time.Since(start))
	return address
}

func (c *Client) ConsultViaCep(ctx context.Context, zipCode string) *entity.Address {
	return c.consultByName(ctx, ViaCEP, zipCode)
}

func (c *Client) ConsultApiCep(ctx context.Context, zipCode string) *entity.Address {
	return c.consultByName(ctx, ApiCEP, zipCode)
}

func (c *Client) ConsultOpenCep(ctx context.Context, zipCode string) *entity.Address {
	return c.consultByName(ctx, OpenCEP, zipCode)
}

func (c *Client) ConsultBrasilApi(ctx context.Context, zipCode string) *entity.Address {
	return c.consultByName(ctx, BrasilAPI, zipCode)
}

func (c *Client) consultByName(ctx context.Context, name, zipCode string) *entity.Address {
	for _, p := range c.providers {
		if p.Name == name {
			return c.Consult(ctx, p, zipCode)
		}
	}
	c.logger.Log(fmt.Sprintf("Error: provider %s not configured", name))
	return nil
}

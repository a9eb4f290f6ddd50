package cep

import (
	"github.com/xavierca1/ligue-cep/internal/entity"
)

// Nomes dos provedores, na ordem de prioridade.
const (
	ViaCEP    = "ViaCEP"
	ApiCEP    = "ApiCEP"
	OpenCEP   = "OpenCEP"
	BrasilAPI = "BrasilAPI"
)

// Provider descreve um serviço de CEP: onde fica e como ele quer o CEP na URL.
// O mapeamento de campos é o mesmo para todos (ver fieldAliases).
type Provider struct {
	Name    string
	BaseURL string

	// Path recebe o CEP só com dígitos e devolve o resto da URL.
	Path func(digits string) string

	// NotFound reconhece o corpo de "não encontrado" próprio do provedor,
	// além do marcador "erro" que vale para todos.
	NotFound func(payload rawResponse) bool
}

func (p Provider) URL(digits string) string {
	return p.BaseURL + p.Path(digits)
}

// DefaultProviders devolve uma cópia nova da tabela, já na ordem de prioridade.
func DefaultProviders() []Provider {
	return []Provider{
		{
			Name:    ViaCEP,
			BaseURL: "https://viacep.com.br/ws/",
			Path:    func(d string) string { return d + "/json" },
		},
		{
			Name:    ApiCEP,
			BaseURL: "https://cdn.apicep.com/file/apicep/",
			Path:    func(d string) string { return entity.MaskCEP(d) + ".json" },
			// ApiCEP responde 200 com {"ok": false, "status": 404, ...}
			NotFound: func(p rawResponse) bool {
				ok, present := p["ok"].(bool)
				return present && !ok
			},
		},
		{
			Name:    OpenCEP,
			BaseURL: "https://opencep.com/v1/",
			Path:    func(d string) string { return d },
		},
		{
			Name:    BrasilAPI,
			BaseURL: "https://brasilapi.com.br/api/cep/v2/",
			Path:    func(d string) string { return d },
		},
	}
}

// WithBaseURL troca a URL base de um provedor. Vazio mantém a original.
func WithBaseURL(providers []Provider, name, baseURL string) []Provider {
	if baseURL == "" {
		return providers
	}
	for i := range providers {
		if providers[i].Name == name {
			providers[i].BaseURL = baseURL
		}
	}
	return providers
}

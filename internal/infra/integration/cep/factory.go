package cep

// ProviderURLs são as URLs base vindas da configuração. Vazio = padrão.
type ProviderURLs struct {
	ViaCEP    string
	ApiCEP    string
	OpenCEP   string
	BrasilAPI string
}

// ConfiguredProviders aplica os overrides sobre a tabela padrão.
func ConfiguredProviders(urls ProviderURLs) []Provider {
	providers := DefaultProviders()
	providers = WithBaseURL(providers, ViaCEP, urls.ViaCEP)
	providers = WithBaseURL(providers, ApiCEP, urls.ApiCEP)
	providers = WithBaseURL(providers, OpenCEP, urls.OpenCEP)
	providers = WithBaseURL(providers, BrasilAPI, urls.BrasilAPI)
	return providers
}

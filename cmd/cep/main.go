package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/xavierca1/ligue-cep/internal/config"
	"github.com/xavierca1/ligue-cep/internal/infra/integration/cep"
	"github.com/xavierca1/ligue-cep/internal/usecase"
)

func main() {
	app := newApp(os.Stdout)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "cep"
	app.Usage = "consulta endereços brasileiros pelo CEP"
	app.Version = "1.0.0"
	app.Writer = out
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "log, l",
			Usage: "mostra as mensagens de diagnóstico das consultas",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "verify",
			Usage:     "valida o formato do CEP",
			ArgsUsage: "<cep>",
			Action: func(c *cli.Context) error {
				uc := buildUseCase(c)
				if uc.Verify(c.Args().First()) {
					fmt.Fprintln(out, "Valid zip code")
				} else {
					fmt.Fprintln(out, "Invalid zip code")
				}
				return nil
			},
		},
		{
			Name:      "lookup",
			Usage:     "busca o endereço do CEP nos provedores",
			ArgsUsage: "<cep>",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return cli.NewExitError("informe exatamente um CEP", 2)
				}
				uc := buildUseCase(c)

				address, err := uc.Execute(context.Background(), c.Args().First())
				if err != nil {
					return cli.NewExitError(fmt.Sprintf("Error: %s", err.Error()), 1)
				}

				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(address)
			},
		},
	}
	return app
}

func buildUseCase(c *cli.Context) *usecase.SearchAddressUseCase {
	cfg := config.Load()
	opts := usecase.Options{Log: cfg.Log || c.GlobalBool("log")}
	diag := opts.Logger()

	providers := cep.ConfiguredProviders(cep.ProviderURLs{
		ViaCEP:    cfg.ViaCepURL,
		ApiCEP:    cfg.ApiCepURL,
		OpenCEP:   cfg.OpenCepURL,
		BrasilAPI: cfg.BrasilApiURL,
	})
	client := cep.NewClient(cep.NewHTTPGetter(cfg.HTTPTimeout), diag, providers)
	return usecase.NewSearchAddressUseCase(client, nil, diag)
}

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/solar-potential/internal/config"
	"github.com/i474232898/solar-potential/internal/solar"
	"github.com/i474232898/solar-potential/internal/solar/providers"
	"github.com/i474232898/solar-potential/internal/store"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "solar-potential",
		Short:         "Solar potential estimates from irradiance, PV simulation and forecast providers",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(overviewCmd())
	rootCmd.AddCommand(estimateCmd())
	rootCmd.AddCommand(resourceCmd())
	rootCmd.AddCommand(forecastCmd())
	rootCmd.AddCommand(tiltCmd())
	rootCmd.AddCommand(compareCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildService wires providers and the probe store from configuration.
func buildService(cfg *config.AppConfig) *solar.Service {
	// Shared HTTP client for outbound provider calls; each request carries its own deadline.
	httpClient := &http.Client{}

	resource := providers.NewSolarResourceProvider(httpClient, cfg.NRELBaseURL, cfg.NRELAPIKey, cfg.HTTPTimeout)
	pv := providers.NewPVWattsProvider(httpClient, cfg.NRELBaseURL, cfg.NRELAPIKey, cfg.HTTPTimeout)
	forecast := providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoBaseURL, cfg.HTTPTimeout)

	probeStore := store.NewMemoryStore(cfg.ProbeMaxHistory, cfg.ProbeMaxAge)

	return solar.NewService(resource, pv, forecast, solar.WithProbeStore(probeStore, cfg.ProbeLocation))
}

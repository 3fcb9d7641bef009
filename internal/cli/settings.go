package cli

import (
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/review-generator/internal/config"
	"github.com/Conceptual-Machines/review-generator/internal/services"
	"github.com/spf13/cobra"
)

const visibleKeyChars = 4

func newSettingsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show completion API and sampling settings",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg := app.LoadConfig()
			s := services.DefaultSampling()

			fmt.Fprintf(app.Out, "Provider:          %s\n", cfg.Provider)
			fmt.Fprintf(app.Out, "Model:             %s\n", cfg.ActiveModel())
			if cfg.Provider != config.ProviderGemini {
				fmt.Fprintf(app.Out, "Endpoint:          %s\n", cfg.CompletionEndpoint)
				fmt.Fprintf(app.Out, "Auth header:       %s\n", cfg.CompletionAuthKey)
				fmt.Fprintf(app.Out, "API key:           %s\n", maskKey(cfg.CompletionAPIKey))
			} else {
				fmt.Fprintf(app.Out, "API key:           %s\n", maskKey(cfg.GeminiAPIKey))
			}
			fmt.Fprintf(app.Out, "Timeout:           %s\n", cfg.RequestTimeout)
			fmt.Fprintf(app.Out, "History:           %s\n", historyLocation(cfg))
			fmt.Fprintf(app.Out, "Temperature:       %.1f\n", s.Temperature)
			fmt.Fprintf(app.Out, "Max tokens:        %d\n", s.MaxTokens)
			fmt.Fprintf(app.Out, "Frequency penalty: %.1f\n", s.FrequencyPenalty)
			fmt.Fprintf(app.Out, "Presence penalty:  %.1f\n", s.PresencePenalty)

			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(app.ErrOut, "Warning: %v\n", err)
			}
			return nil
		},
	}
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= visibleKeyChars {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-visibleKeyChars) + key[len(key)-visibleKeyChars:]
}

func historyLocation(cfg *config.Config) string {
	if cfg.HistoryBackend == config.HistoryBackendPostgres {
		return "postgres"
	}
	return "file " + cfg.HistoryFile
}

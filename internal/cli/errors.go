package cli

import (
	"errors"

	"github.com/Conceptual-Machines/review-generator/internal/config"
	"github.com/Conceptual-Machines/review-generator/internal/export"
	"github.com/Conceptual-Machines/review-generator/internal/models"
)

func exitCodeFor(err error) int {
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}
	var valErr *models.ValidationError
	if errors.As(err, &valErr) {
		return ExitUsageError
	}
	if errors.Is(err, export.ErrUnknownFormat) {
		return ExitUsageError
	}
	return ExitFailure
}

package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/review-generator/internal/models"
	"github.com/Conceptual-Machines/review-generator/internal/services"
	"github.com/spf13/cobra"
)

// languageAliases lets the CLI accept short language names
var languageAliases = map[string]string{
	"1":        models.LanguageEnglish,
	"english":  models.LanguageEnglish,
	"2":        models.LanguageGujarati,
	"gujarati": models.LanguageGujarati,
	"3":        models.LanguageHindi,
	"hindi":    models.LanguageHindi,
}

var useCaseAliases = map[string]string{
	"1":        models.UseCaseCustomerReview,
	"customer": models.UseCaseCustomerReview,
	"2":        models.UseCaseStudentFeedback,
	"student":  models.UseCaseStudentFeedback,
	"3":        models.UseCasePatientExperience,
	"patient":  models.UseCasePatientExperience,
}

func resolveAlias(aliases map[string]string, value string) string {
	if full, ok := aliases[strings.ToLower(strings.TrimSpace(value))]; ok {
		return full
	}
	return value
}

type generateOptions struct {
	req    models.GenerationRequest
	save   bool
	asJSON bool
}

func newGenerateCommand(app *App) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one review",
		Example: `  reviewgen generate --name "Sunrise Cafe" --type restaurant --category "Food & Beverage" --rating 5
  reviewgen generate --name "City Clinic" --type hospital --category Healthcare --rating 4 --language hindi --use-case patient --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := opts.req
			req.Language = resolveAlias(languageAliases, req.Language)
			req.UseCase = resolveAlias(useCaseAliases, req.UseCase)
			req = req.Normalize()
			if err := req.Validate(); err != nil {
				return err
			}

			return app.withService(cmd, func(svc *services.GenerationService) error {
				return app.generate(cmd, svc, req, opts)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.req.BusinessName, "name", "", "business name (required)")
	f.StringVar(&opts.req.BusinessType, "type", "", "business type, e.g. shop, restaurant, hospital (required)")
	f.StringVar(&opts.req.Category, "category", "", "business category, e.g. Food & Beverage (required)")
	f.IntVar(&opts.req.StarRating, "rating", 0, "star rating from 1 to 5 (required)")
	f.StringVar(&opts.req.Language, "language", models.LanguageEnglish, "English, Gujarati Romanized or Hindi Romanized")
	f.StringVar(&opts.req.UseCase, "use-case", models.UseCaseCustomerReview, "Customer review, Student feedback or Patient experience")
	f.BoolVar(&opts.save, "save", false, "append the review to history")
	f.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	return cmd
}

func (app *App) generate(cmd *cobra.Command, svc *services.GenerationService, req models.GenerationRequest, opts *generateOptions) error {
	outcome := svc.Run(cmd.Context(), req)
	result := outcome.Result

	if opts.asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(app.Out, string(data))
	}

	if !result.Success {
		app.exitCode = ExitRuntimeError
		return fmt.Errorf("%s: %s", result.ErrorKind, result.Error)
	}

	if !opts.asJSON {
		fmt.Fprintf(app.Out, "%s\n\n", result.Review)
		fmt.Fprintf(app.Out, "Characters: %d\n", result.CharCount)
		if total, ok := result.TokenUsage.TotalTokens(); ok {
			fmt.Fprintf(app.Out, "Tokens used: %d\n", total)
		}
		if outcome.NearDuplicate {
			fmt.Fprintln(app.Out, "Note: this review opens like a recent one.")
		}
	}

	if opts.save {
		if err := svc.Save(cmd.Context(), req, result); err != nil {
			return err
		}
		fmt.Fprintln(app.ErrOut, "Saved to history.")
	}
	return nil
}

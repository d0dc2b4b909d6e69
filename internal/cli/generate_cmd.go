package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/swimmenu/internal/app"
	"github.com/alexanderramin/swimmenu/internal/cli/formatter"
	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/generation"
)

func newGenerateCmd(a *App) *cobra.Command {
	var (
		levels      loadLevelsFlag
		duration    int
		notes       string
		provider    string
		apiKey      string
		rag         bool
		ragKey      string
		interactive bool
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a swim training menu",
		Example: `  swimmenu generate --load low,high --duration 60 --notes "focus on turns"
  swimmenu generate --load medium --duration 45 --provider ollama --json
  swimmenu generate --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := app.GenerateInput{
				LoadLevels:   levels.values(),
				Duration:     duration,
				Notes:        notes,
				Model:        provider,
				UseRetrieval: rag,
			}

			if interactive {
				if !a.interactive() {
					return errors.New("--interactive needs a terminal")
				}
				if err := askGenerateInput(a, &in); err != nil {
					return err
				}
			}

			key := domain.ProviderKey(in.Model)
			in.Credentials = apiKey
			if in.Credentials == "" {
				in.Credentials = a.apiKey(key)
			}
			if in.UseRetrieval {
				in.RetrievalCredentials = ragKey
				if in.RetrievalCredentials == "" {
					in.RetrievalCredentials = a.embeddingKey()
				}
			}

			req, err := in.Request()
			if err != nil {
				return describeGenerationError(err)
			}
			res, err := runGenerate(cmd.Context(), a, req, a.interactive() && !jsonOut)
			if err != nil {
				return describeGenerationError(err)
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(out, app.NewGenerateOutput(res))
			}
			fmt.Fprint(out, formatter.FormatGenerated(res.MenuID, res.Menu, res.Report.Converged, req.Duration))
			return nil
		},
	}

	cmd.Flags().Var(&levels, "load", "Load levels, comma-separated or repeated (low, medium, high)")
	cmd.Flags().IntVar(&duration, "duration", 60, "Requested duration in minutes")
	cmd.Flags().StringVar(&notes, "notes", "", "Coaching notes passed to the model")
	cmd.Flags().StringVar(&provider, "provider", string(domain.ProviderOpenAI), "Model provider (openai, google, anthropic, ollama, bedrock)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Provider API key (default from SWIMMENU_<PROVIDER>_API_KEY)")
	cmd.Flags().BoolVar(&rag, "rag", false, "Add similar stored menus to the prompt")
	cmd.Flags().StringVar(&ragKey, "rag-key", "", "Embedding API key for --rag (default from the embedding provider's SWIMMENU_<PROVIDER>_API_KEY)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the request with a form")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")

	return cmd
}

// askGenerateInput runs the interactive form, seeded from in.
func askGenerateInput(a *App, in *app.GenerateInput) error {
	ans := generateAnswers{
		Levels:       in.LoadLevels,
		Notes:        in.Notes,
		Provider:     in.Model,
		UseRetrieval: in.UseRetrieval,
	}
	if in.Duration > 0 {
		ans.Duration = strconv.Itoa(in.Duration)
	}
	providers := a.Providers
	if len(providers) == 0 {
		providers = domain.KnownProviders
	}

	if err := newGenerateForm(&ans, providers).Run(); err != nil {
		return err
	}

	d, err := strconv.Atoi(strings.TrimSpace(ans.Duration))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", ans.Duration, err)
	}
	in.LoadLevels = ans.Levels
	in.Duration = d
	in.Notes = ans.Notes
	in.Model = ans.Provider
	in.UseRetrieval = ans.UseRetrieval
	return nil
}

// runGenerate calls the generator, behind a spinner when showSpinner is set.
func runGenerate(ctx context.Context, a *App, req domain.GenerationRequest, showSpinner bool) (*generation.Result, error) {
	if !showSpinner {
		return a.Generator.GenerateMenu(ctx, req)
	}

	var (
		res    *generation.Result
		genErr error
	)
	title := fmt.Sprintf("Generating a %s menu with %s...", formatter.FormatMinutes(req.Duration), req.Provider)
	err := spinner.New().
		Title(title).
		Context(ctx).
		Action(func() { res, genErr = a.Generator.GenerateMenu(ctx, req) }).
		Run()
	if err != nil {
		return nil, err
	}
	return res, genErr
}

// describeGenerationError turns a generation error into a one-line
// message that keeps the error code.
func describeGenerationError(err error) error {
	var ge *generation.Error
	if errors.As(err, &ge) {
		return fmt.Errorf("%s: %s", strings.ToLower(strings.ReplaceAll(string(ge.Code), "_", " ")), ge.Message)
	}
	return err
}

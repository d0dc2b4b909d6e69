package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/swimmenu/internal/app"
	"github.com/alexanderramin/swimmenu/internal/domain"
)

// App holds the use cases and hooks CLI commands call.
type App struct {
	Generator app.GenerateUseCase
	Menus     app.MenuStore
	Search    app.SearchUseCase
	Exports   app.ExportUseCase
	Providers []domain.ProviderKey

	// APIKey resolves a provider's key from the environment when no
	// --api-key flag is given.
	APIKey func(domain.ProviderKey) string
	// EmbeddingKey resolves the embedding key when no --rag-key is given.
	EmbeddingKey func() string
	// IsInteractive reports whether stdin is a terminal. Forms and the
	// spinner only run when it returns true.
	IsInteractive func() bool

	ServeHTTP func(ctx context.Context) error
	ServeMCP  func(ctx context.Context) error
}

// NewRootCmd creates the top-level "swimmenu" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "swimmenu",
		Short:         "Swim training menu generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGenerateCmd(a),
		newMenuCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
	)
	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) apiKey(p domain.ProviderKey) string {
	if a.APIKey == nil {
		return ""
	}
	return a.APIKey(p)
}

func (a *App) embeddingKey() string {
	if a.EmbeddingKey == nil {
		return ""
	}
	return a.EmbeddingKey()
}

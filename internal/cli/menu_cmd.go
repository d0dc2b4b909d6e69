package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/swimmenu/internal/app"
	"github.com/alexanderramin/swimmenu/internal/cli/formatter"
	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/export"
	"github.com/alexanderramin/swimmenu/internal/repository"
)

func newMenuCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Browse, search and export stored menus",
	}

	cmd.AddCommand(
		newMenuListCmd(a),
		newMenuShowCmd(a),
		newMenuDeleteCmd(a),
		newMenuSearchCmd(a),
		newMenuExportCmd(a),
	)
	return cmd
}

func newMenuListCmd(a *App) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored menus, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must be non-negative")
			}
			recs, err := a.Menus.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), app.Summarize(recs))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMenuList(recs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", repository.DefaultListLimit, "Maximum number of menus")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}

func newMenuShowCmd(a *App) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.Menus.GetByID(cmd.Context(), args[0])
			if err != nil {
				return menuLookupError(args[0], err)
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecord(rec))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}

func newMenuDeleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Menus.Delete(cmd.Context(), args[0]); err != nil {
				return menuLookupError(args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted menu %s\n", args[0])
			return nil
		},
	}
}

func newMenuSearchCmd(a *App) *cobra.Command {
	var (
		levels   loadLevelsFlag
		duration int
		notes    string
		ragKey   string
		topK     int
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find stored menus similar to a request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ragKey
			if key == "" {
				key = a.embeddingKey()
			}
			hits, err := a.Search.Search(cmd.Context(), app.SearchRequest{
				LoadLevels:  levels.levels,
				Duration:    duration,
				Notes:       notes,
				Credentials: key,
				TopK:        topK,
			})
			if errors.Is(err, app.ErrNoEmbeddingCredentials) {
				return fmt.Errorf("%w (pass --rag-key)", err)
			}
			if err != nil {
				return err
			}
			if jsonOut {
				if hits == nil {
					hits = []domain.RetrievalHit{}
				}
				return writeJSON(cmd.OutOrStdout(), hits)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSearchHits(hits))
			return nil
		},
	}

	cmd.Flags().Var(&levels, "load", "Load levels, comma-separated (low, medium, high)")
	cmd.Flags().IntVar(&duration, "duration", 60, "Requested duration in minutes")
	cmd.Flags().StringVar(&notes, "notes", "", "Coaching notes to match")
	cmd.Flags().StringVar(&ragKey, "rag-key", "", "Embedding API key")
	cmd.Flags().IntVarP(&topK, "k", "k", 0, "Number of results (default from config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print as JSON")
	return cmd
}

func newMenuExportCmd(a *App) *cobra.Command {
	var (
		format = formatFlag{format: export.FormatMarkdown}
		out    string
		upload bool
	)

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Render a stored menu as json, yaml, csv, markdown or html",
		Example: `  swimmenu menu export 3f2a... --format html --out menu.html
  swimmenu menu export 3f2a... --format yaml --upload`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Exports.Export(cmd.Context(), args[0], format.format, upload)
			if err != nil {
				return menuLookupError(args[0], err)
			}

			switch {
			case out != "":
				if err := os.WriteFile(out, res.Data, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", out, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
			case !upload:
				if _, err := cmd.OutOrStdout().Write(res.Data); err != nil {
					return err
				}
			}
			if res.Location != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Uploaded to %s\n", res.Location)
			}
			return nil
		},
	}

	cmd.Flags().Var(&format, "format", "Output format (json, yaml, csv, markdown, html)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&upload, "upload", false, "Also write to the configured export store")
	return cmd
}

func menuLookupError(id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("menu %q not found", id)
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Package cli implements workspacectl, the operator tool for a workspace store.
package cli

import (
	"context"
	"strings"

	"github.com/likhit-sai/CogniFlow/internal/bootstrap"
	"github.com/likhit-sai/CogniFlow/internal/config"
	"github.com/likhit-sai/CogniFlow/pkg/ai/planner"
	"github.com/likhit-sai/CogniFlow/pkg/llm/factory"

	"github.com/spf13/cobra"
)

// App carries what every command needs. Tests replace the openers.
type App struct {
	Driver string

	cfg         *config.Config
	openStore   func(ctx context.Context, cfg *config.Config) (*bootstrap.RemoteStore, error)
	openPlanner func(cfg *config.Config) (planner.Planner, error)
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{
		openStore:   bootstrap.OpenRemoteStore,
		openPlanner: defaultPlanner,
	})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "workspacectl",
		Short:        "Inspect and maintain a CogniFlow workspace store",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Write the starter workspace into an empty SQLite store
  STORE_DRIVER=sqlite workspacectl seed

  # Print the tree and check its invariants
  workspacectl tree
  workspacectl validate

  # Ask the model for a cleaner structure and apply it
  workspacectl organize --apply
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if app.cfg == nil {
			app.cfg = config.Load()
		}
		if app.Driver != "" {
			app.cfg.Store.Driver = strings.ToLower(app.Driver)
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Driver, "driver", "", "Store driver (memory|postgres|redis|sqlite), overrides STORE_DRIVER")

	cmd.AddCommand(newMigrateCmd(app))
	cmd.AddCommand(newSeedCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newOrganizeCmd(app))
	cmd.AddCommand(newWatchCmd(app))
	return cmd
}

func defaultPlanner(cfg *config.Config) (planner.Planner, error) {
	provider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   cfg.Ai.HuggingFaceAPIKey,
	})
	if err != nil {
		return nil, err
	}
	return planner.NewLLMPlanner(provider), nil
}

// withStore opens the configured store for the duration of fn.
func (a *App) withStore(ctx context.Context, fn func(rs *bootstrap.RemoteStore) error) error {
	rs, err := a.openStore(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer rs.Close()
	return fn(rs)
}

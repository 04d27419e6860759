package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/bootstrap"
	"github.com/likhit-sai/CogniFlow/internal/config"
	"github.com/likhit-sai/CogniFlow/internal/entity"
	"github.com/likhit-sai/CogniFlow/internal/repository/pgstore"
	"github.com/likhit-sai/CogniFlow/internal/seed"
	"github.com/likhit-sai/CogniFlow/pkg/database"
	"github.com/likhit-sai/CogniFlow/pkg/tree"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	ErrNotEmpty     = errors.New("store already holds a workspace (use --force to overwrite)")
	ErrIssuesFound  = errors.New("workspace has integrity issues")
	ErrNeedPostgres = errors.New("migrate only applies to the postgres driver")
)

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the postgres tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.Store.Driver != config.StoreDriverPostgres {
				return ErrNeedPostgres
			}
			db, err := database.NewGormDBFromDSN(app.cfg.Database.Connection, true)
			if err != nil {
				return err
			}
			if err := pgstore.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Migration completed")
			return nil
		},
	}
}

func newSeedCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the starter workspace to the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return app.withStore(ctx, func(rs *bootstrap.RemoteStore) error {
				existing, err := rs.Repo.FetchAll(ctx)
				if err != nil {
					return err
				}
				if len(existing) > 0 && !force {
					return ErrNotEmpty
				}
				items := seed.Workspace(time.Now())
				if err := rs.Repo.ReplaceAll(ctx, items); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Seeded %d items into the %s store\n", len(items), rs.Driver)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite a non-empty store")
	return cmd
}

var kindColor = map[entity.ItemKind]*color.Color{
	entity.ItemKindFolder:       color.New(color.FgYellow, color.Bold),
	entity.ItemKindDatabase:     color.New(color.FgMagenta),
	entity.ItemKindPresentation: color.New(color.FgCyan),
	entity.ItemKindSpreadsheet:  color.New(color.FgGreen),
}

func newTreeCmd(app *App) *cobra.Command {
	var showIds bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the workspace as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return app.withStore(ctx, func(rs *bootstrap.RemoteStore) error {
				items, err := rs.Repo.FetchAll(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "(empty workspace)")
					return nil
				}

				tree.Walk(tree.Build(items), func(n *tree.Node, depth int) {
					line := strings.Repeat("  ", depth) + n.Item.Name
					if c, ok := kindColor[n.Item.Kind]; ok {
						line = c.Sprint(line)
					}
					suffix := fmt.Sprintf(" [%s]", n.Item.Kind)
					if showIds {
						suffix += " " + n.Item.Id
					}
					fmt.Fprintln(out, line+color.HiBlackString(suffix))
				})
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showIds, "ids", false, "Show item ids")
	return cmd
}

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check ids and parent links; exits non-zero on issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return app.withStore(ctx, func(rs *bootstrap.RemoteStore) error {
				items, err := rs.Repo.FetchAll(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				issues := tree.Validate(items)
				if len(issues) == 0 {
					color.New(color.FgGreen).Fprintf(out, "OK: %d items, no issues\n", len(items))
					return nil
				}
				for _, is := range issues {
					color.New(color.FgRed).Fprintf(out, "%-16s %s: %s\n", is.Code, is.ItemId, is.Message)
				}
				return fmt.Errorf("%w: %d found", ErrIssuesFound, len(issues))
			})
		},
	}
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/likhit-sai/CogniFlow/internal/bootstrap"
	"github.com/likhit-sai/CogniFlow/pkg/ai/planner"
	"github.com/likhit-sai/CogniFlow/pkg/events"
	pktNats "github.com/likhit-sai/CogniFlow/pkg/nats"
	"github.com/likhit-sai/CogniFlow/pkg/reorg"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newOrganizeCmd(app *App) *cobra.Command {
	var apply bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Ask the model for a cleaner structure; --apply writes it back",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.openPlanner(app.cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return app.withStore(ctx, func(rs *bootstrap.RemoteStore) error {
				items, err := rs.Repo.FetchAll(ctx)
				if err != nil {
					return err
				}

				actions, err := p.Plan(ctx, planner.BuildView(items))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(actions) == 0 {
					fmt.Fprintln(out, "No suggestions: the workspace already looks organized.")
					return nil
				}

				for i, line := range reorg.Describe(items, actions) {
					fmt.Fprintf(out, "%2d. %s\n", i+1, line)
				}
				if !apply {
					color.New(color.FgYellow).Fprintln(out, "Dry run. Re-run with --apply to write these changes.")
					return nil
				}

				res, err := reorg.NewApplier(reorg.Options{}).Apply(items, actions)
				if err != nil {
					return err
				}
				for _, w := range res.Warnings {
					color.New(color.FgYellow).Fprintln(out, "warning: "+w)
				}
				for _, s := range res.Skipped {
					color.New(color.FgYellow).Fprintf(out, "skipped action %d (%s): %s\n", s.Index+1, s.Action.Action, s.Reason)
				}
				if len(res.Created) == 0 && len(res.Changed) == 0 {
					fmt.Fprintln(out, "Nothing to write.")
					return nil
				}
				if err := rs.Repo.ReplaceAll(ctx, res.Items); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintf(out, "Applied: %d folders created, %d items changed\n", len(res.Created), len(res.Changed))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Write the plan to the store")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Give up after this long")
	return cmd
}

func newWatchCmd(app *App) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream workspace events from NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.Events.NatsURL == "" {
				return fmt.Errorf("NATS_URL is not set")
			}
			sub, err := pktNats.NewSubscriber(app.cfg.Events.NatsURL)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			err = sub.Subscribe(ctx, subject, "", func(_ context.Context, e events.Event) error {
				fmt.Fprintf(out, "%s %s %v\n",
					color.HiBlackString(e.Timestamp().Format(time.RFC3339)),
					color.CyanString(e.EventType()),
					e.Payload(),
				)
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", subject)
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", pktNats.StreamSubject, "Subject filter")
	return cmd
}

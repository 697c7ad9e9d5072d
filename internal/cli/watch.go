package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rmeissner/simple-safe/internal/cli/render"
	"github.com/rmeissner/simple-safe/internal/usecase"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow deployment, funding and the pending transaction",
		Long: `Poll the relay and the node every poll_interval and print the account
state whenever it changes. Stops on Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			initial, err := app.WatchAccount.InitialState(ctx)
			if err != nil {
				return err
			}
			broadcaster := usecase.NewStateBroadcaster(initial)
			updates, cancel := broadcaster.Subscribe()
			defer cancel()

			renderer := render.NewWatchRenderer(cmd.OutOrStdout())
			renderer.RenderState(initial)

			done := make(chan struct{})
			go func() {
				defer close(done)
				app.WatchAccount.Run(ctx, broadcaster)
			}()

			for {
				select {
				case <-ctx.Done():
					<-done
					return nil
				case state := <-updates:
					if app.Config.JSON {
						if err := render.JSON(cmd.OutOrStdout(), state); err != nil {
							return err
						}
						continue
					}
					renderer.RenderState(state)
				}
			}
		},
	}
}

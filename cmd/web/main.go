package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hbnb_web/internal/adapters/observability"
	"hbnb_web/internal/shared"
)

// rootState is shared by every subcommand.
type rootState struct {
	ctx context.Context
	cfg shared.Config
}

func newRootCmd(st *rootState) *cobra.Command {
	root := &cobra.Command{
		Use:   "hbnb-web",
		Short: "Server-rendered front end for the HBnB API",
		Long: `hbnb-web serves the HBnB pages, keeps the session token cookie and
fills every page with data fetched from the HBnB REST API.

Configuration comes from the environment (and a .env file); flags win.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// set global logger (console in dev, JSON otherwise)
			log.Logger = observability.NewLogger(st.cfg.AppEnv, st.cfg.LogLevel)
		},
	}
	root.PersistentFlags().StringVar(&st.cfg.APIBase, "api-base", st.cfg.APIBase, "base URL of the HBnB API")

	root.AddCommand(getCmdServe(st), getCmdPing(st))
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := &rootState{ctx: ctx, cfg: shared.Load()}
	if err := newRootCmd(st).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"hbnb_web/internal/adapters/hbnbapi"
	server "hbnb_web/internal/adapters/http_server"
	"hbnb_web/internal/adapters/memflash"
	"hbnb_web/internal/adapters/observability"
	redisad "hbnb_web/internal/adapters/redis"
	"hbnb_web/internal/app"
	"hbnb_web/internal/domain"
	"hbnb_web/internal/pages"
	"hbnb_web/internal/shared"
)

func getCmdServe(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HBnB pages",
		Long: `Serve the HBnB pages.

Each request re-fetches its data from the API; nothing is cached between
page loads. Flash messages live in Redis when REDIS_ADDR is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), st.cfg)
		},
	}
	f := cmd.Flags()
	f.StringVar(&st.cfg.HTTPAddr, "addr", st.cfg.HTTPAddr, "listen address")
	f.StringVar(&st.cfg.PagesDir, "pages-dir", st.cfg.PagesDir, "directory with page markup overriding the built-in pages")
	f.StringVar(&st.cfg.MetricsAddr, "metrics-addr", st.cfg.MetricsAddr, "separate metrics listener; empty serves /metrics on --addr")
	return cmd
}

func serve(ctx context.Context, cfg shared.Config) error {
	reg, err := pages.Load(cfg.PagesDir)
	if err != nil {
		return err
	}
	log.Info().Stringer("pages", reg).Msg("page markup loaded")

	api, err := hbnbapi.New(cfg.APIBase, cfg.APITimeout, cfg.APIRPS)
	if err != nil {
		return err
	}

	flash, closeFlash, err := openFlash(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFlash()

	// http
	metrics := observability.InitRegistry()
	srv := server.New(cfg.RequestTimeout)
	if cfg.MetricsAddr == "" {
		srv.Mount("/metrics", observability.MetricsHandler(metrics))
	} else {
		observability.Serve(cfg.MetricsAddr, metrics)
	}
	srv.MountHandlers(&server.Handlers{
		Pages:    reg,
		Loader:   app.NewPageService(api),
		Commands: app.NewCommandService(api),
		Flash:    flash,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	// the listener and its shutdown run as one group; whichever ends first stops the other
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("api", cfg.APIBase).Msg("web listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutCtx)
	})
	return g.Wait()
}

// openFlash picks Redis when configured, the in-process store otherwise.
func openFlash(ctx context.Context, cfg shared.Config) (domain.FlashStore, func(), error) {
	if cfg.RedisAddr == "" {
		return memflash.New(cfg.FlashTTL), func() {}, nil
	}
	rs := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.FlashTTL)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rs.Ping(pingCtx); err != nil {
		_ = rs.Close()
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("redis flash store ok")
	return rs, func() {
		if err := rs.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}, nil
}

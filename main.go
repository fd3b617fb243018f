package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"salescoach/app/client/llm"
	"salescoach/app/client/memstore"
	"salescoach/app/client/pgstore"
	"salescoach/app/config"
	"salescoach/app/server"
	"salescoach/app/service/analysis"
	"salescoach/app/service/answer"
	"salescoach/app/service/coach"
	"salescoach/app/service/content"
	"salescoach/app/service/session"
	"salescoach/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, llm.New)
	do.Provide(di, func(di *do.Injector) (answer.Embedder, error) {
		return do.MustInvoke[*llm.Client](di), nil
	})
	do.Provide(di, func(di *do.Injector) (answer.Completion, error) {
		return do.MustInvoke[*llm.Client](di), nil
	})
	do.Provide(di, func(di *do.Injector) (analysis.Completion, error) {
		return do.MustInvoke[*llm.Client](di), nil
	})

	if cfg.DB.Enabled {
		do.Provide(di, pgstore.New)
		do.Provide(di, func(di *do.Injector) (content.Source, error) {
			return do.MustInvoke[*pgstore.Store](di), nil
		})
		do.Provide(di, func(di *do.Injector) (session.Repository, error) {
			return do.MustInvoke[*pgstore.Store](di), nil
		})
		do.Provide(di, func(di *do.Injector) (answer.VectorStore, error) {
			return do.MustInvoke[*pgstore.Store](di), nil
		})
	} else {
		slog.Warn("Database disabled, running on in-memory adapters")

		do.Provide(di, memstore.New)
		do.Provide(di, func(di *do.Injector) (content.Source, error) {
			return do.MustInvoke[*memstore.Store](di), nil
		})
		do.Provide(di, func(di *do.Injector) (session.Repository, error) {
			return do.MustInvoke[*memstore.Store](di), nil
		})
		do.Provide(di, func(di *do.Injector) (answer.VectorStore, error) {
			return do.MustInvoke[*memstore.Store](di), nil
		})
	}

	do.Provide(di, content.New)
	do.Provide(di, coach.New)
	do.Provide(di, analysis.New)
	do.Provide(di, answer.New)
	do.Provide(di, session.New)
	do.Provide(di, server.New)
	do.Provide(di, server.NewMCP)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go func() {
		if err := do.MustInvoke[*server.Server](di).Run(appCtx); err != nil {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	if cfg.Server.MCP {
		go func() {
			if err := do.MustInvoke[*server.MCPServer](di).Serve(); err != nil {
				slog.Error("MCP server failed", "error", err)
			}
		}()
	}

	<-appCtx.Done()
}

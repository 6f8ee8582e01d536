// Command hxtodo serves the todo page and talks to a REST backend.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pthm/hxtodo"
	hxtodoecho "github.com/pthm/hxtodo/adapters/echo"
	"github.com/pthm/hxtodo/lib/api"
	"github.com/pthm/hxtodo/lib/config"
	"github.com/pthm/hxtodo/lib/encoding"
	"github.com/pthm/hxtodo/lib/fetch"
	"github.com/pthm/hxtodo/lib/live"
)

const livePath = "/live"

func main() {
	if err := mainInner(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func mainInner() error {
	if err := config.LoadENV(); err != nil {
		return err
	}
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	addrVar := flag.String("addr", cfg.Addr, "the address to listen on")
	backendVar := flag.String("backend", cfg.BackendURL, "the todo backend base url")
	flag.Parse()

	logger := cfg.Logger()
	slog.SetDefault(logger)
	if cfg.SecretGenerated {
		slog.Warn("no "+config.EnvSecret+" set, using a random key; pages open across a restart will fail their actions")
	}

	mode := encoding.Signed
	if cfg.Sensitive {
		mode = encoding.Encrypted
	}
	enc, err := encoding.NewEncoder(cfg.Secret, mode)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		hub       *live.Hub
		doc       *hxtodo.Document
		viewOpts  []hxtodo.ViewOption
		mountOpts []hxtodoecho.Option
	)
	if cfg.Live {
		hub = live.NewHub(logger)
		doc = hxtodo.NewDocument(hub)
		viewOpts = append(viewOpts, hxtodo.WithLivePath(livePath))
		mountOpts = append(mountOpts, hxtodoecho.WithLive(livePath, hub))
	} else {
		doc = hxtodo.NewDocument(nil)
	}

	actions := hxtodo.NewActions("", enc)
	client := api.New(fetch.New(fetch.WithLogger(logger)), *backendVar)
	controller := hxtodo.NewController(client, hxtodo.NewView(doc, actions, viewOpts...), actions, logger)

	slog.Info("Loading todos", "backend", client.BaseURL(), "payloads", enc.Mode())
	if err := controller.Bootstrap(ctx); err != nil {
		slog.Warn("starting with an empty list", "err", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	hxtodoecho.Mount(e, controller, mountOpts...)

	wg := new(sync.WaitGroup)

	if hub != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Run(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("Listening", "addr", *addrVar)
		if err := e.Start(*addrVar); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server listen failed", "err", err)
			cancel()
		}
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-exit:
		slog.Info("Signal caught", "sig", sig)
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}

	wg.Wait()
	return nil
}

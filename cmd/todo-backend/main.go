// Command todo-backend serves the /todos REST resource the app talks to.
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

	"github.com/pthm/hxtodo/lib/backend"
	"github.com/pthm/hxtodo/lib/config"
)

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

	addrVar := flag.String("addr", cfg.BackendAddr, "the address to listen on")
	dbVar := flag.String("db", cfg.BackendDB, "sqlite database path, empty for in-memory storage")
	flag.Parse()

	logger := cfg.Logger()
	slog.SetDefault(logger)

	var store backend.Store
	if *dbVar == "" {
		slog.Info("Using in-memory storage")
		store = backend.NewMemoryStore()
	} else {
		slog.Info("Opening database", "path", *dbVar)
		if store, err = backend.OpenSQLite(*dbVar); err != nil {
			return err
		}
	}
	defer store.Close()

	httpServer := &http.Server{Addr: *addrVar, Handler: backend.NewServer(store, logger)}

	wg := new(sync.WaitGroup)
	failed := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("Listening", "addr", *addrVar)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server listen failed", "err", err)
			close(failed)
		}
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-exit:
		slog.Info("Signal caught", "sig", sig)
	case <-failed:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}

	wg.Wait()
	return nil
}

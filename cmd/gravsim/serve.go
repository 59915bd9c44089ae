package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/stream"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	s := sim.New(cfg.SimConfig(logger))

	hubCfg := stream.DefaultHubConfig()
	hubCfg.Logger = logger
	hub := stream.NewHub(hubCfg)
	handler := stream.NewHandler(hub, stream.HandlerConfig{Logger: logger})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handler.Handle)
	mux.Handle("/", stream.Viewer())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok clients=%d dropped=%d\n", hub.Clients(), hub.Dropped())
	})
	srv := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer hub.Close()
		return stream.Loop(ctx, s, hub, stream.LoopConfig{FPS: frameRate})
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	url := "http://" + addr + "/"
	if strings.HasPrefix(addr, ":") {
		url = "http://localhost" + addr + "/"
	}
	logger.Printf("serve: streaming %d bodies on %s (websocket %sws)", cfg.Bodies, url, strings.Replace(url, "http", "ws", 1))
	if openBrowser {
		if err := browser.OpenURL(url); err != nil {
			logger.Printf("serve: open browser: %v", err)
		}
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

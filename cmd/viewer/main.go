package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anthill.ai/internal/persistence/recording"
	"anthill.ai/internal/transport/viewer"
)

func main() {
	var (
		addr        = flag.String("addr", "127.0.0.1:8080", "http listen address")
		recPath     = flag.String("recording", "", "path to a recording (.rec or .rec.zst)")
		allowRemote = flag.Bool("allow_remote", false, "serve non-loopback clients")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[viewer] ", log.LstdFlags|log.Lmicroseconds)

	if *recPath == "" {
		logger.Fatalf("missing -recording")
	}
	rec, err := recording.Load(*recPath)
	if err != nil {
		logger.Fatalf("load recording: %v", err)
	}

	vs, err := viewer.NewServer(rec, logger)
	if err != nil {
		logger.Fatalf("viewer: %v", err)
	}
	vs.AllowRemote = *allowRemote

	mux := http.NewServeMux()
	vs.Routes(mux)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signalContext()
	defer cancel()
	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("serving %s (%d frames) on %s", *recPath, len(rec.Frames), *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

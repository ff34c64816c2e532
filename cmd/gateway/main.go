package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gatewayactor "github.com/rmoretti/auditrail/internal/actors/gateway"
	log "github.com/sirupsen/logrus"
)

func init() {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	// Output to stdout instead of the default stderr
	log.SetOutput(os.Stdout)

	// Only log the DebugLevel severity or above.
	log.SetLevel(log.DebugLevel)
}

var (
	httpServerEndpoint = flag.String("http-server-endpoint", "localhost:8090", "HTTP server endpoint")
	configPath         = flag.String("config", "gateway.yaml", "path to the gateway route table")
)

func run() error {
	cfg, err := gatewayactor.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("could not load gateway config")
		return err
	}
	proxy, err := gatewayactor.NewProxy(cfg)
	if err != nil {
		log.WithError(err).Error("could not build gateway proxy")
		return err
	}

	httpServer := &http.Server{
		Addr:    *httpServerEndpoint,
		Handler: proxy.Router(),
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	log.
		WithField("http-server-addr", *httpServerEndpoint).
		WithField("routes", len(cfg.Routes)).
		Info("gateway up or soon to be up. listening to SIGTERM, SIGINT, SIGQUIT for stopping the server")

	// Wait for signal
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-ch

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		panic(err)
	}
}

package main

import (
	"context"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/shared/config"
	"github.com/radieske/prediction-market-poc/internal/shared/logger"
	"github.com/radieske/prediction-market-poc/internal/shared/metrics"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// targets
	marketURL := os.Getenv("MARKET_URL")
	if marketURL == "" {
		marketURL = "http://localhost:8084"
	}
	treasuryURL := os.Getenv("TREASURY_URL")
	if treasuryURL == "" {
		treasuryURL = "http://localhost:8082"
	}
	market := rp(marketURL)
	treasury := rp(treasuryURL)

	mux := http.NewServeMux()

	// mercados (ex.: /api/markets/* -> market-service)
	mux.Handle("/api/markets/", http.StripPrefix("/api/markets", market))

	// treasury (ex.: /api/treasury/* -> treasury-service)
	mux.Handle("/api/treasury/", http.StripPrefix("/api/treasury", treasury))

	// metrics/health do próprio gateway
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error { return nil })

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("gateway", zap.Error(err))
	}
}

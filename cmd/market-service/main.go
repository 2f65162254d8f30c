package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/market-service/auth"
	"github.com/radieske/prediction-market-poc/internal/market-service/engine"
	mhttp "github.com/radieske/prediction-market-poc/internal/market-service/http"
	kpub "github.com/radieske/prediction-market-poc/internal/market-service/producer"
	"github.com/radieske/prediction-market-poc/internal/market-service/store"
	"github.com/radieske/prediction-market-poc/internal/market-service/treasury"
	"github.com/radieske/prediction-market-poc/internal/market-service/ws"
	"github.com/radieske/prediction-market-poc/internal/shared/config"
	"github.com/radieske/prediction-market-poc/internal/shared/db"
	skafka "github.com/radieske/prediction-market-poc/internal/shared/kafka"
	"github.com/radieske/prediction-market-poc/internal/shared/logger"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New("market-service", cfg.Env)
	defer log.Sync()

	// Postgres (nível durável do store do engine)
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()
	if err := db.Migrate(pg); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	// Redis (nível de instância do store + pub/sub do ws)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	// Kafka writers, um por evento do engine
	publ := &kpub.KafkaPublisher{
		EngineInit:     skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicEngineInit),
		MarketCreated:  skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicMarketCreated),
		BetPlaced:      skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced),
		MarketResolved: skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicMarketResolved),
		PayoutClaimed:  skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicPayoutClaimed),
	}
	defer publ.Close()

	// deps do engine
	st := store.New(rdb, pg)
	verifier := auth.NewHMAC(cfg.AuthSecret)

	treasuryURL := os.Getenv("TREASURY_URL")
	if treasuryURL == "" {
		treasuryURL = "http://localhost:8082"
	}
	tcli := treasury.New(treasuryURL) // treasury-service

	eng := engine.New(log, st, tcli, verifier, engine.SystemClock(), publ, cfg.CustodyAccount)

	// Hub WebSocket alimentado pelo Redis Pub/Sub (broadcast do feed worker)
	hub := ws.NewHub(func(r *http.Request) bool { return true })
	ws.StartRedisSubscriber(context.Background(), rdb, hub)

	// HTTP público
	api := mhttp.NewServer(log, eng)
	api.WSHandler = hub.HandleWS

	// Métricas Prometheus por rota/status
	reqs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "market_http_requests_total",
		Help: "requisições por método e status",
	}, []string{"method", "status"})
	prometheus.MustRegister(reqs)

	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: instrument(reqs, api.Router()),
	}

	// metrics/health
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pg.PingContext(r.Context()); err != nil {
			http.Error(w, "pg", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() {
		addr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, metricsMux)
	}()

	log.Info("market-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}

// instrument contabiliza cada requisição por método e status de resposta
func instrument(c *prometheus.CounterVec, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		c.WithLabelValues(r.Method, strconv.Itoa(sw.status)).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack repassa o hijack para o writer original (necessário no upgrade do /ws)
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijack")
	}
	return h.Hijack()
}

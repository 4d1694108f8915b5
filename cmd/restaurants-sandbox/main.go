// Command restaurants-sandbox serves a restaurant collection at
// GET /restaurants so the directory can be exercised without the real data
// server. Latency and failures can be injected to observe the cache fallback.
package main

import (
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Ratio1/restaurant_directory_go/internal/devseed"
	"github.com/Ratio1/restaurant_directory_go/pkg/restaurant"
)

//go:embed seed/restaurants.yaml
var defaultSeed []byte

func main() {
	addr := flag.String("addr", ":1337", "listen address")
	seed := flag.String("seed", "", "path to a JSON or YAML restaurant seed (defaults to the bundled sample)")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<float>,code=<httpStatus>)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("init logger: %v", err))
	}
	defer func() { _ = logger.Sync() }()

	restaurants, err := loadSeed(*seed)
	if err != nil {
		logger.Fatal("load seed", zap.Error(err))
	}

	failCfg, err := parseFailConfig(*fail)
	if err != nil {
		logger.Fatal("parse fail flag", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	srv, err := newServer(restaurants, serverOptions{
		latency:  *latency,
		fail:     failCfg,
		logger:   logger,
		registry: reg,
	})
	if err != nil {
		logger.Fatal("build server", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle("/restaurants", srv)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("restaurants-sandbox listening",
		zap.String("addr", *addr),
		zap.Int("restaurants", len(restaurants)))
	host := *addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	fmt.Println()
	fmt.Printf("export RESTAURANTS_API_URL=http://%s/restaurants\n", host)
	fmt.Println()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func loadSeed(path string) ([]restaurant.Restaurant, error) {
	if path == "" {
		return devseed.ParseRestaurants(defaultSeed, ".yaml")
	}
	return devseed.LoadRestaurants(path)
}

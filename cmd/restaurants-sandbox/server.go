package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Ratio1/restaurant_directory_go/pkg/restaurant"
)

type failConfig struct {
	rate float64
	code int
}

type serverOptions struct {
	latency  time.Duration
	fail     failConfig
	logger   *zap.Logger
	registry prometheus.Registerer
	// roll returns a value in [0, 1) deciding failure injection.
	roll func() float64
}

// server answers GET requests with the pre-encoded collection.
type server struct {
	body     []byte
	opts     serverOptions
	requests *prometheus.CounterVec
}

func newServer(restaurants []restaurant.Restaurant, opts serverOptions) (*server, error) {
	if restaurants == nil {
		restaurants = []restaurant.Restaurant{}
	}
	body, err := json.Marshal(restaurants)
	if err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	if opts.logger == nil {
		opts.logger = zap.NewNop()
	}
	if opts.roll == nil {
		opts.roll = rand.Float64
	}
	s := &server{
		body: body,
		opts: opts,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sandbox_requests_total",
			Help: "Requests served by the sandbox by status code.",
		}, []string{"code"}),
	}
	if opts.registry != nil {
		if err := opts.registry.Register(s.requests); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return s, nil
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)
	status := s.serve(w, r)
	s.requests.WithLabelValues(strconv.Itoa(status)).Inc()
	s.opts.logger.Info("request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status))
}

func (s *server) serve(w http.ResponseWriter, r *http.Request) int {
	if s.opts.latency > 0 {
		select {
		case <-time.After(s.opts.latency):
		case <-r.Context().Done():
			return 499
		}
	}
	if s.opts.fail.rate > 0 && s.opts.roll() < s.opts.fail.rate {
		status := s.opts.fail.code
		if status == 0 {
			status = http.StatusInternalServerError
		}
		http.Error(w, "failure injected", status)
		return status
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return http.StatusMethodNotAllowed
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(s.body)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(s.body)
	}
	return http.StatusOK
}

func parseFailConfig(raw string) (failConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return failConfig{}, nil
	}
	cfg := failConfig{code: http.StatusInternalServerError}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return failConfig{}, fmt.Errorf("invalid fail segment %q", part)
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "rate":
			rate, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return failConfig{}, err
			}
			if rate < 0 || rate > 1 {
				return failConfig{}, fmt.Errorf("fail rate %v outside [0, 1]", rate)
			}
			cfg.rate = rate
		case "code":
			code, err := strconv.Atoi(val)
			if err != nil {
				return failConfig{}, err
			}
			if code < 400 || code > 599 {
				return failConfig{}, fmt.Errorf("fail code %d is not an error status", code)
			}
			cfg.code = code
		default:
			return failConfig{}, fmt.Errorf("unknown fail key %q", key)
		}
	}
	return cfg, nil
}

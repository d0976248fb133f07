package kv

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const redisOpTimeout = 3 * time.Second

// Redis is the remote backend. The connection is established lazily on
// first use; concurrent callers share a single in-flight attempt, and a
// failed attempt is retried on the next call rather than cached.
type Redis struct {
	addr   string
	seed   map[string][]byte
	logger *slog.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	client *redis.Client
	seeded atomic.Bool

	fallbacks     *prometheus.CounterVec
	writeFailures prometheus.Counter
}

// NewRedis constructs the remote backend. The seed payload is written with
// SETNX after the first successful connection, at most once per process,
// so a live dataset is never clobbered by a restarting instance.
func NewRedis(addr string, seed map[string][]byte, logger *slog.Logger, reg prometheus.Registerer) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Redis{
		addr:   addr,
		seed:   seed,
		logger: logger,
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskflow_kv_fallbacks_total",
			Help: "Reads served from the in-process fallback value.",
		}, []string{"reason"}),
		writeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskflow_kv_write_failures_total",
			Help: "Best-effort remote writes that did not persist.",
		}),
	}
	if reg != nil {
		reg.MustRegister(b.fallbacks, b.writeFailures)
	}
	return b
}

// Get returns the remote value for key, or fallback when the backend is
// unconfigured, unreachable, or the key is absent. Errors never propagate.
func (b *Redis) Get(ctx context.Context, key string, fallback []byte) []byte {
	client := b.connect(ctx)
	if client == nil {
		b.fallbacks.WithLabelValues("unavailable").Inc()
		return fallback
	}

	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	data, err := client.Get(opCtx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			b.fallbacks.WithLabelValues("missing").Inc()
		} else {
			b.fallbacks.WithLabelValues("error").Inc()
			b.logger.Warn("kv: redis get failed", slog.String("key", key), slog.Any("error", err))
		}
		return fallback
	}
	return data
}

// Set writes value under key, best effort. Failures are logged and counted.
func (b *Redis) Set(ctx context.Context, key string, value []byte) {
	client := b.connect(ctx)
	if client == nil {
		b.writeFailures.Inc()
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := client.Set(opCtx, key, value, 0).Err(); err != nil {
		b.writeFailures.Inc()
		b.logger.Warn("kv: redis set failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Name identifies the backend.
func (b *Redis) Name() string { return "redis" }

func (b *Redis) connect(ctx context.Context) *redis.Client {
	if b.addr == "" {
		return nil
	}

	b.mu.RLock()
	client := b.client
	b.mu.RUnlock()
	if client != nil {
		b.ensureSeeded(ctx, client)
		return client
	}

	v, err, _ := b.group.Do("connect", func() (any, error) {
		c := redis.NewClient(&redis.Options{
			Addr:         b.addr,
			DialTimeout:  redisOpTimeout,
			ReadTimeout:  redisOpTimeout,
			WriteTimeout: redisOpTimeout,
		})

		pingCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
		defer cancel()
		if err := c.Ping(pingCtx).Err(); err != nil {
			_ = c.Close()
			return nil, err
		}

		b.mu.Lock()
		b.client = c
		b.mu.Unlock()
		return c, nil
	})
	if err != nil {
		b.logger.Warn("kv: redis connect failed", slog.String("addr", b.addr), slog.Any("error", err))
		return nil
	}

	c := v.(*redis.Client)
	b.ensureSeeded(ctx, c)
	return c
}

// ensureSeeded writes the seed payload with SETNX so concurrent or repeated
// initializations never overwrite keys that already exist remotely.
func (b *Redis) ensureSeeded(ctx context.Context, client *redis.Client) {
	if b.seeded.Load() || len(b.seed) == 0 {
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	for key, value := range b.seed {
		if err := client.SetNX(opCtx, key, value, 0).Err(); err != nil {
			// Leave the flag unset so the next call retries.
			b.logger.Warn("kv: redis seed failed", slog.String("key", key), slog.Any("error", err))
			return
		}
	}
	b.seeded.Store(true)
	b.logger.Info("kv: redis seed complete", slog.Int("keys", len(b.seed)))
}

var _ Backend = (*Redis)(nil)

package core

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aaq-platform/aaq-admin/app/store/sqlstore"
	"github.com/aaq-platform/aaq-admin/pkg/types"
	"github.com/aaq-platform/aaq-admin/pkg/utils"
)

type Core struct {
	cfg CoreConfig

	stores     func() *sqlstore.Provider
	httpClient *http.Client
	httpEngine *gin.Engine

	cache   types.Cache
	storage FileStorage
	metrics *Metrics

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	utils.SetupIDWorker(1)

	core := &Core{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Second * 3},
		httpEngine: gin.New(),
		metrics:    NewMetrics("aaq", "admin"),
		cache:      NewRedisCache(cfg.Redis),
		storage:    SetupFileStorage(cfg.ObjectStorage),
		limiters:   make(map[string]*rate.Limiter),
	}

	setupSqlStore(core)

	return core
}

func setupSqlStore(core *Core) {
	core.stores = sqlstore.MustSetup(core.cfg.Postgres)
	if err := core.stores().Install(); err != nil {
		panic(err)
	}
	slog.Info("sql store ready")
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Store() *sqlstore.Provider {
	return s.stores()
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

func (s *Core) Cache() types.Cache {
	return s.cache
}

func (s *Core) FileStorage() FileStorage {
	return s.storage
}

type LimitConfig struct {
	Limit int
}

type LimitOption func(l *LimitConfig)

func WithLimit(limit int) LimitOption {
	return func(l *LimitConfig) {
		l.Limit = limit
	}
}

type Limiter interface {
	Allow() bool
}

// UseLimiter returns the per-key limiter, allowing Limit requests per minute.
func (s *Core) UseLimiter(key string, opts ...LimitOption) Limiter {
	cfg := &LimitConfig{
		Limit: 60,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s.limiterMu.Lock()
	defer s.limiterMu.Unlock()
	l, exist := s.limiters[key]
	if !exist {
		limit := rate.Every(time.Minute / time.Duration(cfg.Limit))
		l = rate.NewLimiter(limit, cfg.Limit*2)
		s.limiters[key] = l
	}
	return l
}

// TryLock takes a short redis lease so only one node runs a housekeeping pass.
// SET NX keeps the original holder's TTL intact, so a crashed holder's lease
// still expires on schedule no matter how often other nodes retry.
func (s *Core) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.cache.SetNX(ctx, "lock:"+key, "1", ttl)
}

func (s *Core) Unlock(ctx context.Context, key string) error {
	return s.cache.Del(ctx, "lock:"+key)
}

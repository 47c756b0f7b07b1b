package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"sjsage522/offerwatch/config"
	"sjsage522/offerwatch/helpers"
	"sjsage522/offerwatch/internal/fetcher"
	"sjsage522/offerwatch/internal/message"
	"sjsage522/offerwatch/logger"
	"sjsage522/offerwatch/services/cache"
	"sjsage522/offerwatch/services/metrics"
	"sjsage522/offerwatch/services/notifier"
	"sjsage522/offerwatch/services/publisher"
	"sjsage522/offerwatch/services/snapshot"
	"sjsage522/offerwatch/services/worker"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Unexpected internal error")
			code = 1
		}
	}()

	// Load and validate configuration
	cfg, err := config.LoadConfig()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	log.Info().
		Str("environment", cfg.Environment).
		Strs("keywords", cfg.Keywords).
		Float64("max_price", cfg.MaxPrice).
		Msg("Starting offer watch")

	// Process-level termination is the only cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	services := initializeServices(&cfg)
	defer services.Cleanup()

	w := worker.NewWorker(worker.Options{
		Keywords: cfg.Keywords,
		MaxPrice: cfg.MaxPrice,
		Fetcher: fetcher.NewKaufdaFetcher(cfg.APIURL, fetcher.SearchParams{
			Lat:  cfg.SearchLat,
			Lng:  cfg.SearchLng,
			Size: cfg.SearchSize,
		}, cfg.RequestTimeout),
		Formatter:      message.NewFormatter(cfg.MessageTitle, cfg.HighlightPublishers),
		Notifiers:      services.Notifiers,
		Store:          services.Store,
		Publisher:      services.Publisher,
		Metrics:        metrics.NewRecorder(),
		PushgatewayURL: cfg.PushgatewayURL,
		Logger:         helpers.NewFailureLog(cfg.ErrorLogFile),
	})

	summary, err := w.Run(ctx)
	fmt.Println(summary.String())
	if err != nil {
		log.Error().Err(err).Msg("Run failed")
		return 1
	}
	return 0
}

// Services holds everything the worker needs besides the fetcher
type Services struct {
	Redis     *redis.Client
	Store     snapshot.Store
	Publisher publisher.Publisher
	Notifiers []notifier.Notifier
}

// Cleanup closes open connections. The publisher owns the shared Redis
// client once it exists.
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
		return
	}
	if s.Redis != nil {
		s.Redis.Close()
	}
}

// redisClient lazily opens the shared Redis connection
func (s *Services) redisClient(cfg *config.Config) *redis.Client {
	if s.Redis == nil {
		s.Redis = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		logger.Info("Using Redis at %s (DB: %d)", cfg.RedisAddr, cfg.RedisDB)
	}
	return s.Redis
}

// initializeServices builds the optional stages. Nothing here fails the run:
// an unavailable channel is skipped and an unreachable store surfaces later.
func initializeServices(cfg *config.Config) *Services {
	services := &Services{
		Notifiers: []notifier.Notifier{notifier.NewConsoleNotifier(os.Stdout)},
	}

	if cfg.TelegramEnabled() {
		tg, err := notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, cfg.RequestTimeout)
		if err != nil {
			logger.LogError("notifier", err, "Telegram disabled")
		} else {
			services.Notifiers = append(services.Notifiers, tg)
		}
	} else {
		logger.Info("Telegram credentials missing, console output only")
	}

	if cfg.DedupEnabled {
		switch cfg.SnapshotBackend {
		case config.SnapshotBackendRedis:
			services.Store = snapshot.NewRedisStore(services.redisClient(cfg), cfg.SnapshotKey)
		case config.SnapshotBackendMemcache:
			services.Store = snapshot.NewCacheStore(cache.NewMemcacheService(cfg.MemcacheAddr, cfg.RequestTimeout), cfg.SnapshotKey)
			logger.Info("Using Memcache at %s", cfg.MemcacheAddr)
		default:
			services.Store = snapshot.NewFileStore(cfg.SnapshotPath)
		}
		logger.Info("Deduplication enabled (backend: %s)", services.Store.Name())
	}

	if cfg.RedisStream != "" {
		services.Publisher = publisher.NewRedisPublisher(
			services.redisClient(cfg),
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		logger.Info("Publishing new offers to stream %s (shards: %d)", cfg.RedisStream, cfg.RedisStreamCount)
	}

	return services
}

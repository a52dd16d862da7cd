package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	analysisAdapter "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/analysis/adapter"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/task"

	cacheAdapter "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/cache/adapter"
	"github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/database"
	"github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/logging"
	pubsubAdapter "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/pubsub/adapter"
	queueAdapter "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/queue/adapter"
)

// The worker runs apart from the API: it owns no live connections, only the
// queue. Lifecycle outcomes travel back to connected clients over the pub/sub
// relay.
func main() {
	// .env is optional outside local development
	_ = godotenv.Load()
	log := logging.New("worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.NewPoolFromEnv(connectCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisAdapter()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer cache.Close()

	analyzer, err := analysisAdapter.NewGeminiAnalyzerFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure analyzer")
	}

	publisher, err := pubsubAdapter.NewRedisPubSubFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create publisher")
	}
	defer publisher.Close()

	srv, err := queueAdapter.NewAsynqServer(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue server")
	}

	task.RegisterProcessMeetingTask(srv, pool, cache, analyzer, publisher, log)

	log.Info().Msg("meeting worker started")
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("worker stopped with error")
	}
	log.Info().Msg("worker shut down")
}

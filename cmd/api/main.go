package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ayush1432220/Meet-mind-web-App/cmd/api/router/v1"
	cacheAdapter "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/cache/adapter"
	"github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/database"
	"github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/logging"
	pubsubAdapter "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/pubsub/adapter"
	queueAdapter "github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/queue/adapter"
	"github.com/ayush1432220/Meet-mind-web-App/internal/infrastructure/realtime"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/analytics"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/task"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()
	log := logging.New("api")

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

	queueClient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue client")
	}
	defer queueClient.Close()

	hub := realtime.NewHub()
	defer hub.Close()

	var trackerOpts []analytics.Option
	if os.Getenv("SPEAKER_FLUSH_ON_DISCONNECT") == "true" {
		trackerOpts = append(trackerOpts, analytics.WithFlushOnDisconnect())
	}
	tracker := analytics.NewSpeakerTracker(cache, trackerOpts...)

	// Lifecycle events published by worker processes get re-broadcast into
	// the rooms this node hosts.
	relay, err := pubsubAdapter.NewRedisPubSubFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create pubsub subscriber")
	}
	defer relay.Close()
	go func() {
		err := relay.Subscribe(ctx, task.EventsChannel, func(payload []byte) {
			var ev task.LifecycleEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				log.Warn().Err(err).Msg("discarding malformed lifecycle event")
				return
			}
			frame, err := json.Marshal(gin.H{"event": ev.Event, "meeting_id": ev.MeetingID})
			if err != nil {
				return
			}
			delivered := hub.Broadcast(ev.MeetingID, frame, "")
			log.Debug().
				Str("event", ev.Event).
				Str("meeting_id", ev.MeetingID).
				Int("delivered", delivered).
				Msg("relayed lifecycle event")
		})
		if err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("lifecycle event subscription ended")
		}
	}()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, pool, queueClient, hub, tracker, log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/config"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/logger"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/notify"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/scene"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/spellbook"
)

func main() {
	scenePath := flag.String("scene", "", "path to a scene snapshot (JSON)")
	hooksPath := flag.String("hooks", "-", "path to a newline separated hook stream, - for stdin")
	flag.Parse()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})
	if envErr != nil {
		log.Debug("No .env file found")
	}

	if *scenePath == "" {
		log.Fatal("-scene is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snap, err := scene.LoadSnapshot(*scenePath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load scene")
	}
	sc, err := scene.FromSnapshot(snap, &scene.Config{
		RenderDelay: cfg.Scene.RenderDelay,
		Logger:      log,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to build scene")
	}

	book, err := spellbook.New(&spellbook.Config{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Logger:     log,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create spellbook")
	}

	notifiers := notify.Multi{notify.NewLogNotifier(log)}
	if cfg.Discord.Enabled() {
		discordNotifier, discordErr := newDiscordNotifier(cfg)
		if discordErr != nil {
			log.WithError(discordErr).Warn("Discord reminders disabled")
		} else {
			notifiers = append(notifiers, discordNotifier)
			log.WithField("channel_id", cfg.Discord.ChannelID).Info("Posting reminders to Discord")
		}
	}

	redisClient := connectRedis(ctx, cfg, log)
	if redisClient != nil {
		defer func() {
			if closeErr := redisClient.Close(); closeErr != nil {
				log.WithError(closeErr).Warn("Error closing Redis connection")
			}
		}()
	}

	appCfg := &appConfig{
		Config:   cfg,
		Logger:   log,
		Scene:    sc,
		Spells:   book,
		Notifier: notifiers,
	}
	if redisClient != nil {
		appCfg.Redis = redisClient
	}

	a, err := newApp(appCfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to wire automation")
	}

	in, closeIn, err := openStream(*hooksPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to open hook stream")
	}
	defer closeIn()

	n, err := a.dispatcher.Replay(ctx, in)
	if err != nil {
		log.WithError(err).Error("Hook replay stopped")
	}
	log.WithField("hooks", n).Info("Replay finished")
}

func newDiscordNotifier(cfg *config.Config) (notify.Notifier, error) {
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return notify.NewDiscordNotifier(&notify.DiscordNotifierConfig{
		Session:   session,
		ChannelID: cfg.Discord.ChannelID,
	})
}

// connectRedis returns nil when Redis is not configured or not reachable,
// selecting the in-memory repositories
func connectRedis(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) *redis.Client {
	if cfg.Redis.URL == "" {
		log.Info("No REDIS_URL found, using in-memory repositories")
		return nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.WithError(err).Warn("Failed to parse Redis URL, falling back to in-memory repositories")
		return nil
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		log.WithError(err).Warn("Failed to connect to Redis, falling back to in-memory repositories")
		return nil
	}

	log.Info("Using Redis for persistence")
	return client
}

func openStream(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dnd-vtt-automation/internal/entities"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/repositories/interactions"
	"github.com/KirkDiggler/dnd-vtt-automation/internal/repositories/sustained"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: debug-interaction <interaction-id> | user <user-id> | sustained")
		os.Exit(1)
	}

	_ = godotenv.Load()
	ctx := context.Background()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, pingErr := client.Ping(pingCtx).Result(); pingErr != nil {
		log.Fatalf("Failed to connect to Redis: %v", pingErr)
	}
	defer func() {
		if clientErr := client.Close(); clientErr != nil {
			log.Printf("Failed to close Redis connection: %v", clientErr)
		}
	}()

	switch os.Args[1] {
	case "user":
		if len(os.Args) < 3 {
			log.Fatal("Usage: debug-interaction user <user-id>")
		}
		repo := interactions.NewRedis(client)
		list, err := repo.ListByUser(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Failed to list interactions: %v", err)
		}
		fmt.Printf("%d live interaction(s) for %s\n", len(list), os.Args[2])
		for _, interaction := range list {
			printInteraction(os.Stdout, interaction)
		}

	case "sustained":
		repo := sustained.NewRedisRepository(&sustained.RedisRepoConfig{Client: client})
		list, err := repo.List(ctx)
		if err != nil {
			log.Fatalf("Failed to list sustained spells: %v", err)
		}
		fmt.Printf("%d sustained spell(s)\n", len(list))
		for _, spell := range list {
			printSustained(os.Stdout, spell)
		}

	default:
		repo := interactions.NewRedis(client)
		interaction, err := repo.Get(ctx, os.Args[1])
		if err != nil {
			log.Printf("Failed to get interaction: %v", err)
			return
		}
		printInteraction(os.Stdout, interaction)
	}
}

func printInteraction(w io.Writer, i *entities.Interaction) {
	fmt.Fprintf(w, "Interaction: %s\n", i.ID)
	fmt.Fprintf(w, "  User: %s\n", i.UserID)
	fmt.Fprintf(w, "  Caster: %s\n", i.CasterID)
	fmt.Fprintf(w, "  Status: %s\n", i.Status)
	fmt.Fprintf(w, "  Spell: %s (%s)\n", i.SpellName, i.SpellKey)
	if i.Concentration {
		fmt.Fprintf(w, "  Concentration: %d rounds\n", i.DurationRounds)
	}
	if i.Condition != "" {
		fmt.Fprintf(w, "  Condition: %s (rounds %d, DC %d %s)\n", i.Condition, i.ConditionRounds, i.SaveDC, i.SaveType)
	}
	if i.TemplateID != "" {
		fmt.Fprintf(w, "  Template: %s\n", i.TemplateID)
	}
	fmt.Fprintf(w, "  Targets: %s\n", strings.Join(i.TargetIDs, ", "))
	fmt.Fprintf(w, "  Created: %s\n", i.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "  Expires: %s\n", i.ExpiresAt.Format(time.RFC3339))
}

func printSustained(w io.Writer, s *entities.SustainedSpell) {
	fmt.Fprintf(w, "%s (%s): %s since round %d", s.CasterName, s.CasterID, s.SpellName, s.StartedRound)
	if s.DurationRounds > 0 {
		fmt.Fprintf(w, " for %d rounds", s.DurationRounds)
	}
	fmt.Fprintf(w, ", targets: %s\n", strings.Join(s.TargetIDs, ", "))
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"dadjoke-bot/internal/config"
	"dadjoke-bot/internal/content"
	"dadjoke-bot/internal/models"
	"dadjoke-bot/internal/reply"
	"dadjoke-bot/pkg/logger"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	inline  = flag.Bool("inline", false, "print the inline query answer instead of command replies")
	query   = flag.String("query", "", "inline query text")
	timeout = flag.Duration("timeout", 30*time.Second, "overall deadline")
)

func main() {
	flag.Parse()
	logger.Init("debug", os.Stderr)

	// Only the sources section is needed, so the bot token is not required here.
	var cfg config.SourcesConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read environment: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	assembler := reply.New(content.New(cfg))

	fmt.Println("=== Fetch check ===")
	fmt.Println()

	if *inline {
		for i, r := range assembler.Inline(ctx, *query) {
			fmt.Printf("%d: [%s] %s\n   %s\n", i+1, r.ID, r.Title, r.Description)
		}
		return
	}

	failed := 0
	for _, source := range models.AllSources {
		text, served := assembler.Command(ctx, source)
		if served == nil {
			failed++
			fmt.Printf("✗ %s\n  %s\n\n", source, text)
			continue
		}
		fmt.Printf("✓ %s (id %s)\n  %s\n\n", source, served.ID, text)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

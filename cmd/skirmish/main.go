// Package main provides the skirmish simulator: it loads content and a
// scenario, then plays one encounter to its end, either against a human at
// the terminal or fully automated.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	scenarioPath := flag.String("scenario", "content/scenarios/goblin_ambush.yaml", "path to scenario YAML file")
	contentRoot := flag.String("content", "", "content root directory; overrides content.root")
	npcsDir := flag.String("npcs-dir", "", "npc template directory; overrides content.npcs")
	statusesDir := flag.String("statuses-dir", "", "status definition directory; overrides content.statuses")
	aiDir := flag.String("ai-dir", "", "HTN AI domain directory; overrides content.ai")
	scriptsDir := flag.String("scripts-dir", "", "Lua script root; overrides content.scripts")
	autoplay := flag.Bool("autoplay", false, "let the ally AI control the player")
	seed := flag.Int64("seed", 0, "dice seed; overrides combat.seed when non-zero")
	color := flag.Bool("color", true, "colour the battlefield")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	applyOverride(&cfg.Content.Root, *contentRoot)
	applyOverride(&cfg.Content.NPCs, *npcsDir)
	applyOverride(&cfg.Content.Statuses, *statusesDir)
	applyOverride(&cfg.Content.AI, *aiDir)
	applyOverride(&cfg.Content.Scripts, *scriptsDir)
	if *seed != 0 {
		cfg.Combat.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("starting skirmish",
		zap.String("scenario", *scenarioPath),
		zap.Bool("autoplay", *autoplay),
		zap.Int64("seed", cfg.Combat.Seed),
	)

	res, err := run(ctx, session{
		cfg:      cfg,
		scenario: *scenarioPath,
		autoplay: *autoplay,
		color:    *color,
		in:       os.Stdin,
		out:      os.Stdout,
		logger:   logger,
	})
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
	logger.Info("simulation finished",
		zap.String("outcome", string(res.outcome)),
		zap.Int("rounds", res.rounds),
		zap.Int("rewards", len(res.rewards)),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func applyOverride(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

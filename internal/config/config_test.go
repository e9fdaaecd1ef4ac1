package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Combat: CombatConfig{
			BaseMovement:     3,
			CritMultiplier:   1.5,
			MaxRounds:        100,
			InstructionLimit: 100000,
		},
		Pacing: PacingConfig{
			MoveStep: 150 * time.Millisecond,
			Hit:      400 * time.Millisecond,
			Phase:    250 * time.Millisecond,
		},
		Content: ContentConfig{
			Root: "content",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
combat:
  base_movement: 4
  crit_multiplier: 2
  fast_mode: true
  seed: 42
pacing:
  move_step: 10ms
content:
  root: /srv/content
  ai: /srv/ai
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.Combat.BaseMovement)
	assert.Equal(t, 2.0, cfg.Combat.CritMultiplier)
	assert.True(t, cfg.Combat.FastMode)
	assert.Equal(t, int64(42), cfg.Combat.Seed)
	assert.Equal(t, 10*time.Millisecond, cfg.Pacing.MoveStep)
	assert.Equal(t, 400*time.Millisecond, cfg.Pacing.Hit, "unset keys keep their defaults")
	assert.Equal(t, 100, cfg.Combat.MaxRounds)
	assert.Equal(t, "/srv/ai", cfg.Content.AIDir())
	assert.Equal(t, filepath.Join("/srv/content", "npcs"), cfg.Content.NPCsDir())
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0644))
	t.Setenv("SKIRMISH_COMBAT_SEED", "7")
	t.Setenv("SKIRMISH_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Combat.Seed)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadFromViper_Defaults(t *testing.T) {
	cfg, err := LoadFromViper(Defaults())
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Combat.BaseMovement)
	assert.Equal(t, "content", cfg.Content.Root)
	assert.Equal(t, filepath.Join("content", "scripts"), cfg.Content.ScriptsDir())
	assert.Equal(t, filepath.Join("content", "statuses"), cfg.Content.StatusesDir())
}

func TestLoadFromViper_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "info")
	v.Set("logging.format", "json")
	_, err := LoadFromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "combat.base_movement")
	assert.Contains(t, err.Error(), "content.root")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateCombat(t *testing.T) {
	cfg := validConfig()
	cfg.Combat.BaseMovement = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Combat.CritMultiplier = 0.5
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Combat.MaxRounds = -1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Combat.InstructionLimit = 0
	assert.Error(t, cfg.Validate())
}

func TestValidatePacingNegative(t *testing.T) {
	cfg := validConfig()
	cfg.Pacing.Hit = -time.Millisecond
	assert.Error(t, cfg.Validate())
}

func TestValidateContentRootEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Content.Root = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateAccumulatesSections(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	cfg.Pacing.Phase = -time.Second
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "pacing.phase")
}

// Property-based tests

func TestPropertyValidBaseMovement(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mv := rapid.IntRange(1, 50).Draw(t, "base_movement")
		cfg := validConfig()
		cfg.Combat.BaseMovement = mv
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid base_movement %d rejected: %v", mv, err)
		}
	})
}

func TestPropertyInvalidBaseMovement(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mv := rapid.IntRange(-1000, 0).Draw(t, "base_movement")
		cfg := validConfig()
		cfg.Combat.BaseMovement = mv
		if err := cfg.Validate(); err == nil {
			t.Fatalf("invalid base_movement %d accepted", mv)
		}
	})
}

func TestPropertyExplicitContentDirWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := rapid.StringMatching(`[a-z]{3,10}`).Draw(t, "root")
		ai := rapid.StringMatching(`[a-z]{3,10}`).Draw(t, "ai")
		c := ContentConfig{Root: root}
		assert.Equal(t, filepath.Join(root, "ai"), c.AIDir())
		c.AI = ai
		assert.Equal(t, ai, c.AIDir())
	})
}

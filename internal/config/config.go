// Package config provides Viper-based configuration loading for the skirmish simulator.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// CombatConfig holds encounter tuning.
type CombatConfig struct {
	// BaseMovement is the movement budget before race and status adjustments.
	BaseMovement int `mapstructure:"base_movement"`
	// CritMultiplier is the default critical hit multiplier.
	CritMultiplier float64 `mapstructure:"crit_multiplier"`
	// FastMode collapses every pacing delay to zero.
	FastMode bool `mapstructure:"fast_mode"`
	// Seed makes dice deterministic; 0 selects the crypto source.
	Seed int64 `mapstructure:"seed"`
	// MaxRounds bounds a simulated encounter; 0 means unbounded.
	MaxRounds int `mapstructure:"max_rounds"`
	// InstructionLimit caps Lua instructions per AI hook call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// PacingConfig holds the presentation delays of the combat timeline.
type PacingConfig struct {
	MoveStep time.Duration `mapstructure:"move_step"`
	Hit      time.Duration `mapstructure:"hit"`
	Phase    time.Duration `mapstructure:"phase"`
}

// ContentConfig locates the YAML and Lua content trees.
type ContentConfig struct {
	// Root holds the weapons/armor/shields/catalysts/items and
	// spells/skills/classes/races subdirectories.
	Root string `mapstructure:"root"`
	// Statuses, NPCs, AI and Scripts default to subdirectories of Root when empty.
	Statuses string `mapstructure:"statuses"`
	NPCs     string `mapstructure:"npcs"`
	AI       string `mapstructure:"ai"`
	Scripts  string `mapstructure:"scripts"`
}

// StatusesDir returns the status definition directory.
func (c ContentConfig) StatusesDir() string { return c.dir(c.Statuses, "statuses") }

// NPCsDir returns the npc template directory.
func (c ContentConfig) NPCsDir() string { return c.dir(c.NPCs, "npcs") }

// AIDir returns the HTN domain directory.
func (c ContentConfig) AIDir() string { return c.dir(c.AI, "ai") }

// ScriptsDir returns the Lua script root. Each AI domain loads the
// subdirectory named after its ID; the "shared" subdirectory backs every domain.
func (c ContentConfig) ScriptsDir() string { return c.dir(c.Scripts, "scripts") }

func (c ContentConfig) dir(explicit, sub string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(c.Root, sub)
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Combat  CombatConfig  `mapstructure:"combat"`
	Pacing  PacingConfig  `mapstructure:"pacing"`
	Content ContentConfig `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validatePacing(c.Pacing); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.BaseMovement < 1 {
		errs = append(errs, fmt.Sprintf("combat.base_movement must be >= 1, got %d", c.BaseMovement))
	}
	if c.CritMultiplier < 1 {
		errs = append(errs, fmt.Sprintf("combat.crit_multiplier must be >= 1, got %g", c.CritMultiplier))
	}
	if c.MaxRounds < 0 {
		errs = append(errs, fmt.Sprintf("combat.max_rounds must be >= 0, got %d", c.MaxRounds))
	}
	if c.InstructionLimit < 1 {
		errs = append(errs, fmt.Sprintf("combat.instruction_limit must be >= 1, got %d", c.InstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePacing(p PacingConfig) error {
	var errs []string
	if p.MoveStep < 0 {
		errs = append(errs, "pacing.move_step must not be negative")
	}
	if p.Hit < 0 {
		errs = append(errs, "pacing.hit must not be negative")
	}
	if p.Phase < 0 {
		errs = append(errs, "pacing.phase must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.Root == "" {
		return errors.New("content.root must not be empty")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("combat.base_movement", 3)
	v.SetDefault("combat.crit_multiplier", 1.5)
	v.SetDefault("combat.fast_mode", false)
	v.SetDefault("combat.seed", 0)
	v.SetDefault("combat.max_rounds", 100)
	v.SetDefault("combat.instruction_limit", 100000)

	v.SetDefault("pacing.move_step", "150ms")
	v.SetDefault("pacing.hit", "400ms")
	v.SetDefault("pacing.phase", "250ms")

	v.SetDefault("content.root", "content")
}

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

var (
	contentRoot    = filepath.Join("..", "..", "content")
	sampleScenario = filepath.Join(contentRoot, "scenarios", "goblin_ambush.yaml")
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.LoadFromViper(config.Defaults())
	require.NoError(t, err)
	cfg.Content.Root = contentRoot
	cfg.Combat.FastMode = true
	cfg.Combat.Seed = 42
	cfg.Combat.MaxRounds = 60
	return cfg
}

func TestLoadLibrary_SampleContent(t *testing.T) {
	cfg := testConfig(t)
	lib, err := loadLibrary(cfg.Content, dice.NewLoggedRoller(dice.NewSource(1), zap.NewNop()), 1000, zap.NewNop())
	require.NoError(t, err)
	defer lib.Close()

	for _, id := range []string{"brute", "caster", "swallower"} {
		_, ok := lib.planners.PlannerFor(id)
		assert.True(t, ok, "domain %s", id)
	}
	assert.Equal(t, []string{"brute", "caster", "swallower"}, lib.planners.Domains())
	for _, id := range []string{"goblin", "goblin_shaman", "bog_lurker", "spark_drone"} {
		_, ok := lib.npcs.Get(id)
		assert.True(t, ok, "template %s", id)
	}
	_, ok := lib.statuses.Get("bleeding")
	assert.True(t, ok)
	_, ok = lib.rules.Class("spellblade")
	assert.True(t, ok)
}

func TestLoadLibrary_MissingNPCDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.NPCs = filepath.Join(t.TempDir(), "nowhere")
	_, err := loadLibrary(cfg.Content, dice.NewLoggedRoller(dice.NewSource(1), zap.NewNop()), 1000, zap.NewNop())
	assert.Error(t, err)
}

func TestRun_Autoplay(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	res, err := run(context.Background(), session{
		cfg:      testConfig(t),
		scenario: sampleScenario,
		autoplay: true,
		logger:   zap.New(core),
	})
	require.NoError(t, err)

	assert.Positive(t, res.rounds)
	assert.LessOrEqual(t, res.rounds, 61)
	if res.outcome == combat.OutcomeVictory {
		assert.NotEmpty(t, res.rewards)
	}
	assert.Equal(t, 1, logs.FilterMessage("encounter outcome").Len())
	assert.Equal(t, 1, logs.FilterMessage("scenario ready").Len())
}

func TestRun_ConsoleQuit(t *testing.T) {
	var out bytes.Buffer
	res, err := run(context.Background(), session{
		cfg:      testConfig(t),
		scenario: sampleScenario,
		in:       strings.NewReader("dance\nhelp\nstatus\nquit\n"),
		out:      &out,
		logger:   zap.NewNop(),
	})
	require.NoError(t, err)
	assert.Equal(t, combat.OutcomeActive, res.outcome)
	assert.Empty(t, res.rewards)

	text := out.String()
	assert.Contains(t, text, "@")
	assert.Contains(t, text, "Brann> ")
	assert.Contains(t, text, "unknown command")
	assert.Contains(t, text, "attack <target>")
	assert.Contains(t, text, "Bog Lurker")
	assert.Contains(t, text, "lurker")
}

func TestRun_ConsoleSubmitsIntents(t *testing.T) {
	var out bytes.Buffer
	// One step east of the starting cell.
	_, err := run(context.Background(), session{
		cfg:      testConfig(t),
		scenario: sampleScenario,
		in:       strings.NewReader("move 2 3\n"),
		out:      &out,
		logger:   zap.NewNop(),
	})
	require.NoError(t, err)
	// The second prompt proves the first move was accepted and play came back around.
	assert.GreaterOrEqual(t, strings.Count(out.String(), "Brann> "), 2)
}

func TestRun_ConsoleReadiesDeferredSkill(t *testing.T) {
	var out bytes.Buffer
	_, err := run(context.Background(), session{
		cfg:      testConfig(t),
		scenario: sampleScenario,
		in:       strings.NewReader("skill shield_bash\ntarget goblin-1\ncancel\nwait\n"),
		out:      &out,
		logger:   zap.NewNop(),
	})
	require.NoError(t, err)

	text := out.String()
	assert.Equal(t, 1, strings.Count(text, "shield_bash is readied"))
	// goblin-1 starts out of reach, so the target is refused and the bash
	// stays readied until it is cancelled.
	assert.Contains(t, text, "invalid target")
	assert.GreaterOrEqual(t, strings.Count(text, "Brann> "), 4)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := run(ctx, session{
		cfg:      testConfig(t),
		scenario: sampleScenario,
		autoplay: true,
		logger:   zap.NewNop(),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_MissingScenario(t *testing.T) {
	_, err := run(context.Background(), session{
		cfg:      testConfig(t),
		scenario: filepath.Join(t.TempDir(), "missing.yaml"),
		autoplay: true,
	})
	assert.Error(t, err)
}

func TestApplyOverride(t *testing.T) {
	v := "content"
	applyOverride(&v, "")
	assert.Equal(t, "content", v)
	applyOverride(&v, "elsewhere")
	assert.Equal(t, "elsewhere", v)
}

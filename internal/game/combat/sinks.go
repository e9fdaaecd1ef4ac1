package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/npc"
)

// Log categories passed to LogSink.
const (
	CategoryCombat   = "combat"
	CategoryMovement = "movement"
	CategoryStatus   = "status"
	CategoryReward   = "reward"
	CategoryWarning  = "warning"
	CategorySystem   = "system"
)

// Renderer presents the encounter. Render must be idempotent.
type Renderer interface {
	Render(enc *Encounter)
}

// LogSink receives the human-readable combat log. It is fire-and-forget.
type LogSink interface {
	Log(message, category string)
}

// RewardSink receives the rewards of each defeated enemy.
type RewardSink interface {
	Reward(r Reward)
}

// Reward is handed off once per defeated enemy.
type Reward struct {
	EnemyID   string
	EnemyName string
	npc.Rewards
}

type nopRenderer struct{}

func (nopRenderer) Render(*Encounter) {}

type nopRewards struct{}

func (nopRewards) Reward(Reward) {}

type zapLogSink struct {
	logger *zap.Logger
}

// NewZapLogSink returns a LogSink writing each message as an info entry with a category field.
// A nil logger is replaced by a no-op logger.
func NewZapLogSink(logger *zap.Logger) LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapLogSink{logger: logger}
}

func (s *zapLogSink) Log(message, category string) {
	s.logger.Info(message, zap.String("category", category))
}

// RecordingSink collects log lines and rewards in memory.
// It backs tests and any caller that wants to inspect the log afterwards.
type RecordingSink struct {
	Lines   []LogLine
	Rewards []Reward
}

// LogLine is one recorded log message.
type LogLine struct {
	Message  string
	Category string
}

// Log implements LogSink.
func (s *RecordingSink) Log(message, category string) {
	s.Lines = append(s.Lines, LogLine{Message: message, Category: category})
}

// Reward implements RewardSink.
func (s *RecordingSink) Reward(r Reward) {
	s.Rewards = append(s.Rewards, r)
}

// Count returns the number of lines recorded under category.
func (s *RecordingSink) Count(category string) int {
	n := 0
	for _, l := range s.Lines {
		if l.Category == category {
			n++
		}
	}
	return n
}

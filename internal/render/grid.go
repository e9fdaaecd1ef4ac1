// Package render draws an encounter as ASCII text for terminals and logs.
package render

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// Cell glyphs.
const (
	GlyphFloor    = '.'
	GlyphInactive = ' '
	GlyphTerrain  = '^'
	GlyphObstacle = '#'
	GlyphPlayer   = '@'
	GlyphAlly     = 'A'
	GlyphDrone    = 'd'
)

// enemyGlyphs label enemies in encounter order; extras share the last glyph.
const enemyGlyphs = "123456789abcefghijklmnopqrstuvwxyz"

// Grid draws enc row by row followed by a legend of every placed combatant.
// When color is set, combatants are tinted by side.
//
// Postcondition: the first Height lines each have exactly Width visible runes.
func Grid(enc *combat.Encounter, color bool) string {
	g := enc.Grid()
	glyphs := make(map[string]rune)
	enemy := 0
	for _, c := range enc.Combatants() {
		switch c.Role {
		case combat.RolePlayer:
			glyphs[c.ID] = GlyphPlayer
		case combat.RoleAlly:
			glyphs[c.ID] = GlyphAlly
		case combat.RoleDrone:
			glyphs[c.ID] = GlyphDrone
		default:
			glyphs[c.ID] = rune(enemyGlyphs[min(enemy, len(enemyGlyphs)-1)])
			enemy++
		}
	}

	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			p := grid.Pos{X: x, Y: y}
			if c := enc.Occupant(p); c != nil {
				b.WriteString(tint(color, c, string(glyphs[c.ID])))
				continue
			}
			b.WriteRune(cellGlyph(g, p))
		}
		b.WriteByte('\n')
	}

	placed := make([]*combat.Combatant, 0, len(glyphs))
	for _, c := range enc.Combatants() {
		if c.IsAlive() && c.Pos.IsPlaced() {
			placed = append(placed, c)
		}
	}
	sort.SliceStable(placed, func(i, j int) bool { return placed[i].Role < placed[j].Role })
	for _, c := range placed {
		line := fmt.Sprintf("%c %-12s HP %3d/%-3d MP %3d/%-3d %s", glyphs[c.ID], c.Name, c.HP, c.MaxHP, c.MP, c.MaxMP, c.Pos)
		b.WriteString(tint(color, c, line))
		b.WriteByte('\n')
	}
	return b.String()
}

func cellGlyph(g *grid.Grid, p grid.Pos) rune {
	if !g.IsActive(p) {
		return GlyphInactive
	}
	if o := g.ObjectAt(p); o != nil {
		if o.Kind == grid.ObjectTerrain {
			return GlyphTerrain
		}
		return GlyphObstacle
	}
	return GlyphFloor
}

func tint(color bool, c *combat.Combatant, text string) string {
	if !color {
		return text
	}
	switch c.Role {
	case combat.RolePlayer:
		return Colorize(Green, text)
	case combat.RoleAlly:
		return Colorize(Cyan, text)
	case combat.RoleDrone:
		return Colorize(Blue, text)
	default:
		return Colorize(Red, text)
	}
}

// LogRenderer writes the battlefield as a debug entry. It implements
// combat.Renderer and does nothing when debug logging is off.
type LogRenderer struct {
	logger *zap.Logger
	color  bool
}

// NewLogRenderer returns a renderer writing to logger. A nil logger is
// replaced by a no-op logger.
func NewLogRenderer(logger *zap.Logger, color bool) *LogRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogRenderer{logger: logger, color: color}
}

// Render implements combat.Renderer.
func (r *LogRenderer) Render(enc *combat.Encounter) {
	if ce := r.logger.Check(zapcore.DebugLevel, "battlefield"); ce != nil {
		ce.Write(
			zap.Int("round", enc.Round()),
			zap.String("grid", "\n"+Grid(enc, r.color)),
		)
	}
}

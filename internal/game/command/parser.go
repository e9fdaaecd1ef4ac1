package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ParseResult{}
	}
	res := ParseResult{Command: strings.ToLower(fields[0])}
	if len(fields) > 1 {
		res.Args = fields[1:]
	}
	return res
}

// Arg returns the i-th argument, or "" when absent.
func (p ParseResult) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}

// Cell parses Args[i] and Args[i+1] as x and y coordinates.
//
// Postcondition: ok is false when either argument is absent or not an integer.
func (p ParseResult) Cell(i int) (grid.Pos, bool) {
	if i < 0 || i+1 >= len(p.Args) {
		return grid.Unplaced, false
	}
	x, errX := strconv.Atoi(p.Args[i])
	y, errY := strconv.Atoi(p.Args[i+1])
	if errX != nil || errY != nil {
		return grid.Unplaced, false
	}
	return grid.Pos{X: x, Y: y}, true
}

// TargetOrCell reads the arguments starting at i as either a cell ("x y")
// or a single combatant ID.
func (p ParseResult) TargetOrCell(i int) (target string, cell grid.Pos) {
	if c, ok := p.Cell(i); ok {
		return "", c
	}
	return p.Arg(i), grid.Unplaced
}

// Count parses Args[i] as a positive integer, returning def when absent.
func (p ParseResult) Count(i, def int) (int, error) {
	s := p.Arg(i)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a positive number", s)
	}
	return n, nil
}

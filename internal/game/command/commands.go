// Package command provides the command registry, parser, and the built-in
// commands a human player types during an encounter.
package command

// Categories for organizing commands.
const (
	CategoryMovement = "movement"
	CategoryCombat   = "combat"
	CategorySystem   = "system"
)

// Handler identifiers mapping commands to intents or local actions.
const (
	HandlerMove      = "move"
	HandlerStep      = "step"
	HandlerAttack    = "attack"
	HandlerCast      = "cast"
	HandlerUse       = "use"
	HandlerSkill     = "skill"
	HandlerSignature = "signature"
	HandlerTarget    = "target"
	HandlerCancel    = "cancel"
	HandlerFlee      = "flee"
	HandlerStruggle  = "struggle"
	HandlerWait      = "wait"
	HandlerStatus    = "status"
	HandlerHelp      = "help"
	HandlerQuit      = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument shape, e.g. "cast <spell> [target | x y]".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command (movement, combat, system).
	Category string
	// Handler selects how Interpret resolves the command.
	Handler string
}

// BuiltinCommands returns all built-in encounter commands.
func BuiltinCommands() []Command {
	return []Command{
		// Movement commands
		{Name: "move", Aliases: []string{"mv", "go"}, Usage: "move <x> <y>", Help: "Walk to a reachable cell", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "north", Aliases: []string{"n"}, Usage: "north [tiles]", Help: "Step north", Category: CategoryMovement, Handler: HandlerStep},
		{Name: "south", Aliases: []string{"s"}, Usage: "south [tiles]", Help: "Step south", Category: CategoryMovement, Handler: HandlerStep},
		{Name: "east", Aliases: []string{"e"}, Usage: "east [tiles]", Help: "Step east", Category: CategoryMovement, Handler: HandlerStep},
		{Name: "west", Aliases: []string{"w"}, Usage: "west [tiles]", Help: "Step west", Category: CategoryMovement, Handler: HandlerStep},

		// Combat commands
		{Name: "attack", Aliases: []string{"att", "a", "kill"}, Usage: "attack <target>", Help: "Strike with the equipped weapon", Category: CategoryCombat, Handler: HandlerAttack},
		{Name: "cast", Aliases: []string{"c"}, Usage: "cast <spell> [target | x y]", Help: "Cast a known spell", Category: CategoryCombat, Handler: HandlerCast},
		{Name: "use", Aliases: []string{"u", "item"}, Usage: "use <item> [target | x y]", Help: "Use a consumable", Category: CategoryCombat, Handler: HandlerUse},
		{Name: "skill", Aliases: []string{"sk"}, Usage: "skill <skill> [target | x y]", Help: "Use a skill, or ready a deferred one", Category: CategoryCombat, Handler: HandlerSkill},
		{Name: "target", Aliases: []string{"t", "aim"}, Usage: "target <target | x y>", Help: "Aim the readied skill", Category: CategoryCombat, Handler: HandlerTarget},
		{Name: "cancel", Aliases: []string{"lower"}, Usage: "cancel", Help: "Lower the readied skill", Category: CategoryCombat, Handler: HandlerCancel},
		{Name: "signature", Aliases: []string{"sig"}, Usage: "signature [target | x y]", Help: "Use the class signature ability", Category: CategoryCombat, Handler: HandlerSignature},
		{Name: "flee", Aliases: []string{"run"}, Usage: "flee", Help: "Attempt to escape the encounter", Category: CategoryCombat, Handler: HandlerFlee},
		{Name: "struggle", Aliases: []string{"str"}, Usage: "struggle", Help: "Fight free of a swallower", Category: CategoryCombat, Handler: HandlerStruggle},
		{Name: "wait", Aliases: []string{"pass", "p"}, Usage: "wait", Help: "End the turn", Category: CategoryCombat, Handler: HandlerWait},

		// System commands
		{Name: "status", Aliases: []string{"st", "look", "l"}, Usage: "status", Help: "Show every combatant", Category: CategorySystem, Handler: HandlerStatus},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Usage: "quit", Help: "Abandon the simulation", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// IsMovementCommand reports whether the command name is a step direction.
func IsMovementCommand(name string) bool {
	switch name {
	case "north", "south", "east", "west":
		return true
	default:
		return false
	}
}

package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RegisterModules installs the engine table:
//
//	engine.combatant(uid)          -> table or nil
//	engine.distance(a, b)          -> integer (-1 when unknown)
//	engine.hostiles_within(uid, r) -> integer
//	engine.round()                 -> integer
//	engine.roll(expr)              -> integer (nil on a bad expression)
//	engine.log.debug|info|warn(msg)
//
// Precondition: L must come from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetFuncs(engine, map[string]lua.LGFunction{
		"combatant":       m.luaCombatant,
		"distance":        m.luaDistance,
		"hostiles_within": m.luaHostilesWithin,
		"round":           m.luaRound,
		"roll":            m.luaRoll,
	})
	logTbl := L.NewTable()
	L.SetFuncs(logTbl, map[string]lua.LGFunction{
		"debug": m.luaLog(zap.DebugLevel),
		"info":  m.luaLog(zap.InfoLevel),
		"warn":  m.luaLog(zap.WarnLevel),
	})
	engine.RawSetString("log", logTbl)
	L.SetGlobal("engine", engine)
}

func (m *Manager) luaLog(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		if ce := m.logger.Check(level, L.CheckString(1)); ce != nil {
			ce.Write(zap.String("source", "lua"))
		}
		return 0
	}
}

func (m *Manager) luaCombatant(L *lua.LState) int {
	q := m.bound()
	if q == nil {
		L.Push(lua.LNil)
		return 1
	}
	info, ok := q.Combatant(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	t := L.NewTable()
	t.RawSetString("uid", lua.LString(info.UID))
	t.RawSetString("name", lua.LString(info.Name))
	t.RawSetString("role", lua.LString(info.Role))
	t.RawSetString("hp", lua.LNumber(info.HP))
	t.RawSetString("max_hp", lua.LNumber(info.MaxHP))
	t.RawSetString("mp", lua.LNumber(info.MP))
	t.RawSetString("max_mp", lua.LNumber(info.MaxMP))
	t.RawSetString("x", lua.LNumber(info.X))
	t.RawSetString("y", lua.LNumber(info.Y))
	statuses := L.NewTable()
	for _, s := range info.Statuses {
		statuses.RawSetString(s, lua.LTrue)
	}
	t.RawSetString("statuses", statuses)
	L.Push(t)
	return 1
}

func (m *Manager) luaDistance(L *lua.LState) int {
	q := m.bound()
	if q == nil {
		L.Push(lua.LNumber(-1))
		return 1
	}
	L.Push(lua.LNumber(q.Distance(L.CheckString(1), L.CheckString(2))))
	return 1
}

func (m *Manager) luaHostilesWithin(L *lua.LState) int {
	q := m.bound()
	if q == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(q.HostilesWithin(L.CheckString(1), L.CheckInt(2))))
	return 1
}

func (m *Manager) luaRound(L *lua.LState) int {
	q := m.bound()
	if q == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(q.Round()))
	return 1
}

func (m *Manager) luaRoll(L *lua.LState) int {
	res, err := m.roller.RollExpr(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(res.Total()))
	return 1
}

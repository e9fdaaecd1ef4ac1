package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// sharedDomain is the reserved key for scripts every domain falls back to.
const sharedDomain = "__shared__"

// CombatantInfo is the view of one combatant exposed to scripts.
type CombatantInfo struct {
	UID      string
	Name     string
	Role     string
	HP       int
	MaxHP    int
	MP       int
	MaxMP    int
	X, Y     int
	Statuses []string
}

// Query answers the engine.* calls made by scripts.
type Query interface {
	Combatant(uid string) (CombatantInfo, bool)
	// Distance returns the taxicab distance between two combatants, or -1.
	Distance(a, b string) int
	// HostilesWithin counts living hostiles of uid within r cells.
	HostilesWithin(uid string, r int) int
	Round() int
}

// Manager owns one sandboxed LState per AI domain and dispatches precondition hooks.
//
// Manager serialises all calls; it is safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	states  map[string]*lua.LState
	cancels map[string]func()
	limit   int
	roller  *dice.Roller
	logger  *zap.Logger
	query   Query
}

// NewManager creates a Manager whose hook calls run at most limit opcodes.
//
// Precondition: roller must be non-nil.
// Postcondition: a nil logger is replaced by a no-op logger.
func NewManager(roller *dice.Roller, logger *zap.Logger, limit int) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	return &Manager{
		states:  make(map[string]*lua.LState),
		cancels: make(map[string]func()),
		limit:   limit,
		roller:  roller,
		logger:  logger,
	}
}

// Bind points the engine.* functions at q. A nil q makes every query return nil.
func (m *Manager) Bind(q Query) {
	m.mu.Lock()
	m.query = q
	m.mu.Unlock()
}

func (m *Manager) bound() Query {
	return m.query
}

// LoadDomain creates a VM for domainID and runs every *.lua file in dir in
// lexicographic order.
//
// Precondition: domainID must be non-empty.
// Postcondition: on error no VM is registered for domainID.
func (m *Manager) LoadDomain(domainID, dir string) error {
	return m.loadInto(domainID, dir)
}

// LoadShared loads the fallback VM consulted when a domain has no VM of its own.
func (m *Manager) LoadShared(dir string) error {
	return m.loadInto(sharedDomain, dir)
}

// LoadString registers a VM for domainID from a source string.
func (m *Manager) LoadString(domainID, src string) error {
	L, cancel := NewSandboxedState(m.limit)
	m.RegisterModules(L)
	if err := L.DoString(src); err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: loading source for %q: %w", domainID, err)
	}
	m.install(domainID, L, cancel)
	return nil
}

func (m *Manager) loadInto(key, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", dir, key, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	L, cancel := NewSandboxedState(m.limit)
	m.RegisterModules(L)
	for _, path := range files {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}
	m.install(key, L, cancel)
	return nil
}

func (m *Manager) install(key string, L *lua.LState, cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.states[key]; ok {
		m.cancels[key]()
		old.Close()
	}
	m.states[key] = L
	m.cancels[key] = cancel
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, L := range m.states {
		m.cancels[key]()
		L.Close()
	}
	m.states = make(map[string]*lua.LState)
	m.cancels = make(map[string]func())
}

// CallHook calls the global function hook in domainID's VM, falling back to the
// shared VM. It returns (LNil, nil) when no VM or hook exists. Lua runtime
// errors, including an exhausted instruction budget, are logged at warn level
// and yield LNil.
//
// Postcondition: returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(domainID, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	L, ok := m.states[domainID]
	if !ok {
		L = m.states[sharedDomain]
	}
	if L == nil {
		m.logger.Debug("scripting: no VM for domain", zap.String("domain", domainID), zap.String("hook", hook))
		return lua.LNil, nil
	}
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	ctx, cancel := newBudget(m.limit)
	defer cancel()
	L.SetContext(ctx)
	err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	L.RemoveContext()
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("domain", domainID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/game/status"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// sharedScripts is the script subdirectory loaded into the fallback VM.
const sharedScripts = "shared"

// library is every content registry an encounter needs.
type library struct {
	items    *inventory.Registry
	rules    *ruleset.Registry
	statuses *status.Registry
	npcs     *npc.Registry
	planners *ai.Registry
	scripts  *scripting.Manager
}

func (l *library) Close() {
	if l.scripts != nil {
		l.scripts.Close()
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// loadLibrary reads the content tree described by c.
//
// Postcondition: on success every registry is populated and every AI domain
// has a planner whose preconditions run in that domain's Lua VM.
func loadLibrary(c config.ContentConfig, roller *dice.Roller, limit int, logger *zap.Logger) (*library, error) {
	start := time.Now()
	lib := &library{}

	var err error
	if lib.items, err = inventory.LoadDirectory(c.Root); err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	if lib.rules, err = ruleset.LoadDirectory(c.Root); err != nil {
		return nil, fmt.Errorf("loading ruleset: %w", err)
	}

	lib.statuses = status.DefaultRegistry()
	if isDir(c.StatusesDir()) {
		if err := status.LoadDirectory(lib.statuses, c.StatusesDir()); err != nil {
			return nil, fmt.Errorf("loading statuses: %w", err)
		}
	}
	if err := lib.rules.Validate(lib.statuses); err != nil {
		return nil, fmt.Errorf("validating ruleset: %w", err)
	}

	templates, err := npc.LoadTemplates(c.NPCsDir())
	if err != nil {
		return nil, fmt.Errorf("loading npc templates: %w", err)
	}
	if lib.npcs, err = npc.NewRegistry(templates); err != nil {
		return nil, fmt.Errorf("indexing npc templates: %w", err)
	}
	logger.Info("content loaded",
		zap.String("root", c.Root),
		zap.Int("npc_templates", len(templates)),
		zap.Duration("elapsed", time.Since(start)),
	)

	lib.scripts = scripting.NewManager(roller, logger.Named("scripting"), limit)
	lib.planners = ai.NewRegistry()
	if shared := filepath.Join(c.ScriptsDir(), sharedScripts); isDir(shared) {
		if err := lib.scripts.LoadShared(shared); err != nil {
			lib.Close()
			return nil, fmt.Errorf("loading shared scripts: %w", err)
		}
		logger.Info("loaded shared scripts", zap.String("dir", shared))
	}

	// Lua precondition scripts must be loaded before their domains are registered.
	if isDir(c.AIDir()) {
		domains, err := ai.LoadDomains(c.AIDir())
		if err != nil {
			lib.Close()
			return nil, fmt.Errorf("loading AI domains: %w", err)
		}
		for _, d := range domains {
			if dir := filepath.Join(c.ScriptsDir(), d.ID); isDir(dir) {
				if err := lib.scripts.LoadDomain(d.ID, dir); err != nil {
					lib.Close()
					return nil, fmt.Errorf("loading scripts for domain %q: %w", d.ID, err)
				}
			}
			if err := lib.planners.Register(d, lib.scripts); err != nil {
				lib.Close()
				return nil, fmt.Errorf("registering AI domain %q: %w", d.ID, err)
			}
		}
		logger.Info("loaded AI domains", zap.Strings("domains", lib.planners.Domains()))
	}
	return lib, nil
}

package inventory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Subdirectories of an inventory content root.
const (
	WeaponsDir   = "weapons"
	ArmorDir     = "armor"
	ShieldsDir   = "shields"
	CatalystsDir = "catalysts"
	ItemsDir     = "items"
)

// load reads every *.yaml file in dir, parses it as a T, validates it and
// hands it to register. A missing directory is not an error.
func load[T any, P interface {
	*T
	Validate() error
}](dir, kind string, register func(P) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: cannot read directory %q: %w", kind, dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("load %s: cannot read file %q: %w", kind, path, err)
		}
		var v T
		if err := yaml.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("load %s: cannot parse file %q: %w", kind, path, err)
		}
		p := P(&v)
		if err := p.Validate(); err != nil {
			return fmt.Errorf("load %s: invalid definition in %q: %w", kind, path, err)
		}
		if err := register(p); err != nil {
			return err
		}
	}
	return nil
}

// LoadDirectory loads the weapons, armor, shields, catalysts and items
// subdirectories of root into a new Registry.
//
// Precondition: root is a readable directory path.
// Postcondition: returns a populated Registry or the first encountered error.
func LoadDirectory(root string) (*Registry, error) {
	reg := NewRegistry()
	steps := []func() error{
		func() error { return load(filepath.Join(root, WeaponsDir), "weapons", reg.RegisterWeapon) },
		func() error { return load(filepath.Join(root, ArmorDir), "armor", reg.RegisterArmor) },
		func() error { return load(filepath.Join(root, ShieldsDir), "shields", reg.RegisterShield) },
		func() error { return load(filepath.Join(root, CatalystsDir), "catalysts", reg.RegisterCatalyst) },
		func() error { return load(filepath.Join(root, ItemsDir), "items", reg.RegisterItem) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

package inventory

import (
	"fmt"
	"sort"
)

// Registry holds all loaded weapon, armor, shield, catalyst and item definitions indexed by ID.
// It is read-only after loading and safe for concurrent reads.
type Registry struct {
	weapons   map[string]*WeaponDef
	armors    map[string]*ArmorDef
	shields   map[string]*ShieldDef
	catalysts map[string]*CatalystDef
	items     map[string]*ItemDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		weapons:   make(map[string]*WeaponDef),
		armors:    make(map[string]*ArmorDef),
		shields:   make(map[string]*ShieldDef),
		catalysts: make(map[string]*CatalystDef),
		items:     make(map[string]*ItemDef),
	}
}

// RegisterWeapon adds w to the registry.
//
// Precondition:  w must not be nil.
// Postcondition: Weapon(w.ID) returns w; returns error if w.ID already registered.
func (r *Registry) RegisterWeapon(w *WeaponDef) error {
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterWeapon: weapon ID %q already registered", w.ID)
	}
	r.weapons[w.ID] = w
	return nil
}

// RegisterArmor adds a to the registry.
func (r *Registry) RegisterArmor(a *ArmorDef) error {
	if _, exists := r.armors[a.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterArmor: armor ID %q already registered", a.ID)
	}
	r.armors[a.ID] = a
	return nil
}

// RegisterShield adds s to the registry.
func (r *Registry) RegisterShield(s *ShieldDef) error {
	if _, exists := r.shields[s.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterShield: shield ID %q already registered", s.ID)
	}
	r.shields[s.ID] = s
	return nil
}

// RegisterCatalyst adds c to the registry.
func (r *Registry) RegisterCatalyst(c *CatalystDef) error {
	if _, exists := r.catalysts[c.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterCatalyst: catalyst ID %q already registered", c.ID)
	}
	r.catalysts[c.ID] = c
	return nil
}

// RegisterItem adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns (d, true); returns error if d.ID already registered.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterItem: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	return nil
}

// Weapon returns the WeaponDef for the given id and whether it was found.
func (r *Registry) Weapon(id string) (*WeaponDef, bool) {
	w, ok := r.weapons[id]
	return w, ok
}

// Armor returns the ArmorDef for the given id and whether it was found.
func (r *Registry) Armor(id string) (*ArmorDef, bool) {
	a, ok := r.armors[id]
	return a, ok
}

// Shield returns the ShieldDef for the given id and whether it was found.
func (r *Registry) Shield(id string) (*ShieldDef, bool) {
	s, ok := r.shields[id]
	return s, ok
}

// Catalyst returns the CatalystDef for the given id and whether it was found.
func (r *Registry) Catalyst(id string) (*CatalystDef, bool) {
	c, ok := r.catalysts[id]
	return c, ok
}

// Item returns the ItemDef for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Item(id string) (*ItemDef, bool) {
	d, ok := r.items[id]
	return d, ok
}

// AllItems returns all registered ItemDefs sorted by ID.
func (r *Registry) AllItems() []*ItemDef {
	out := make([]*ItemDef, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

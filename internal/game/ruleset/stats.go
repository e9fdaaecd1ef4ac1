package ruleset

// Stats holds a combatant's base attributes.
type Stats struct {
	Strength     int `yaml:"strength"`
	Intelligence int `yaml:"intelligence"`
	Dexterity    int `yaml:"dexterity"`
	Defense      int `yaml:"defense"`
	Luck         int `yaml:"luck"`
	Speed        int `yaml:"speed"`
}

// Plus returns the field-wise sum of s and o.
func (s Stats) Plus(o Stats) Stats {
	return Stats{
		Strength:     s.Strength + o.Strength,
		Intelligence: s.Intelligence + o.Intelligence,
		Dexterity:    s.Dexterity + o.Dexterity,
		Defense:      s.Defense + o.Defense,
		Luck:         s.Luck + o.Luck,
		Speed:        s.Speed + o.Speed,
	}
}

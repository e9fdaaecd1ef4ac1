package combat

// EndTurn runs actor's turn-end processing: periodic status damage and
// healing, duration decrements and expiry. The end resolver is consulted once.
func (e *Encounter) EndTurn(actor *Combatant) {
	if e.Ended() {
		return
	}
	for _, r := range actor.Statuses.Tick() {
		if r.Damage > 0 && actor.HP > 0 {
			dmg := actor.ApplyDamage(r.Damage)
			e.logf(CategoryStatus, "%s takes %d %s damage", actor.Name, dmg, r.ID)
		}
		if r.Heal > 0 && actor.HP > 0 {
			if got := actor.Heal(r.Heal); got > 0 {
				e.logf(CategoryStatus, "%s regenerates %d HP", actor.Name, got)
			}
		}
		if r.Expired {
			e.logf(CategoryStatus, "%s is no longer %s", actor.Name, r.ID)
		}
	}
	e.CheckEnd()
}

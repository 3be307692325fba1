// Package affect resolves which entities a skill cast touches.
// A skill names an affect scope (the shape of the area) and an affect object
// (a per-target filter); Resolver combines both over a world query.
package affect

// Scope определяет форму области действия скилла.
type Scope int8

const (
	ScopeNone          Scope = iota // Affects nothing
	ScopeBalakas                    // Valakas (not implemented)
	ScopeDeadPledge                 // Dead clan mates of the target
	ScopeFan                        // Fan in front of the caster
	ScopeParty                      // Party of the target
	ScopePartyPledge                // Party and clan of the target
	ScopePledge                     // Clan of the target
	ScopePointBlank                 // Around the target
	ScopeRange                      // Around the target
	ScopeRangeSortByHP              // Around the target, weakest first
	ScopeRingRange                  // Ring (not implemented)
	ScopeSingle                     // The target only
	ScopeSquare                     // Square around the target (not implemented)
	ScopeSquarePB                   // Square around the caster (not implemented)
	ScopeStaticObject               // Static objects (not implemented)
	ScopeWyvern                     // Wyvern (not implemented)
)

var scopeNames = [...]string{
	ScopeNone:          "NONE",
	ScopeBalakas:       "BALAKAS_SCOPE",
	ScopeDeadPledge:    "DEAD_PLEDGE",
	ScopeFan:           "FAN",
	ScopeParty:         "PARTY",
	ScopePartyPledge:   "PARTY_PLEDGE",
	ScopePledge:        "PLEDGE",
	ScopePointBlank:    "POINT_BLANK",
	ScopeRange:         "RANGE",
	ScopeRangeSortByHP: "RANGE_SORT_BY_HP",
	ScopeRingRange:     "RING_RANGE",
	ScopeSingle:        "SINGLE",
	ScopeSquare:        "SQUARE",
	ScopeSquarePB:      "SQUARE_PB",
	ScopeStaticObject:  "STATIC_OBJECT_SCOPE",
	ScopeWyvern:        "WYVERN_SCOPE",
}

// String returns the datapack name of the scope.
func (s Scope) String() string {
	if s < 0 || int(s) >= len(scopeNames) {
		return "UNKNOWN"
	}
	return scopeNames[s]
}

// ParseScope converts a datapack name to Scope.
func ParseScope(name string) (Scope, bool) {
	for i, n := range scopeNames {
		if n == name {
			return Scope(i), true
		}
	}
	return ScopeNone, false
}

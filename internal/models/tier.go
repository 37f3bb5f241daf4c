package models

import "fmt"

// Tier is a performance classification, ordered from best to worst.
type Tier int

const (
	TierExcellent Tier = iota
	TierGood
	TierAcceptable
	TierPoor
)

// LabelFailed is the category label for failed samples. It is deliberately
// not a Tier: failed samples never take part in tier counts.
const LabelFailed = "failed"

// Tiers lists every tier from best to worst.
var Tiers = []Tier{TierExcellent, TierGood, TierAcceptable, TierPoor}

var tierNames = [...]string{"excellent", "good", "acceptable", "poor"}

// String returns the lowercase tier name.
func (t Tier) String() string {
	if t < TierExcellent || t > TierPoor {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// Valid reports whether t is one of the four defined tiers.
func (t Tier) Valid() bool {
	return t >= TierExcellent && t <= TierPoor
}

// Worse returns whichever of t and other ranks lower.
func (t Tier) Worse(other Tier) Tier {
	if other > t {
		return other
	}
	return t
}

// ParseTier converts a tier name back into a Tier.
func ParseTier(s string) (Tier, error) {
	for i, name := range tierNames {
		if name == s {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}

func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid tier %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Index returns the tier's rank, 0 for excellent through 3 for poor.
func (t Tier) Index() int {
	return int(t)
}

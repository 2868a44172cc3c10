package houses

import (
	"fmt"
	"strings"

	"github.com/wonny/natal/internal/contracts"
)

// System is a quadrant house system
type System string

const (
	Placidus      System = "placidus"
	Regiomontanus System = "regiomontanus"
	Porphyry      System = "porphyry"

	// WholeSignSystem labels whole-sign cusp sets; it is not a quadrant system
	WholeSignSystem = "whole_sign"
)

// Systems returns the supported quadrant systems
func Systems() []System {
	return []System{Placidus, Regiomontanus, Porphyry}
}

// Parse resolves a configured quadrant house system name
func Parse(name string) (System, error) {
	s := System(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Systems() {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unknown house system %q", contracts.ErrInvalidConfig, name)
}

// String returns the system name
func (s System) String() string {
	return string(s)
}

package commands

import (
	"fmt"
	"io"

	"github.com/wonny/natal/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	ruleHeavy = "═══════════════════════════════════════════════════════════"
	ruleLight = "───────────────────────────────────────────────────────────"
)

// PrintHeader prints a titled block header
func PrintHeader(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ruleHeavy)
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, ruleLight)
}

// PrintSummary renders a placement summary as text
func PrintSummary(w io.Writer, title string, s *contracts.PlacementSummary) {
	PrintHeader(w, title)
	fmt.Fprintf(w, "  Instant   : %s\n", s.Instant)
	fmt.Fprintf(w, "  Place     : %.4f, %.4f\n", s.Input.Latitude, s.Input.Longitude)
	fmt.Fprintf(w, "  Provider  : %s\n", s.Provider)
	fmt.Fprintf(w, "  Ayanamsa  : %s %.6f°\n", s.Ayanamsa.Standard, s.Ayanamsa.Degrees)

	fmt.Fprintln(w, ruleLight)
	if s.Tropical != nil {
		fmt.Fprintf(w, "  [Tropical / %s]\n", s.HouseSystem)
		for _, p := range []contracts.Placement{s.Tropical.Ascendant, s.Tropical.Sun, s.Tropical.Moon} {
			printPlacement(w, p)
		}
	} else {
		fmt.Fprintf(w, "  [Tropical] unavailable: %s (%s)\n", s.Status.Tropical.Error, s.Status.Tropical.Kind)
	}

	fmt.Fprintln(w, ruleLight)
	if s.Sidereal != nil {
		fmt.Fprintln(w, "  [Sidereal / whole sign]")
		printPlacement(w, s.Sidereal.Ascendant)
		for _, b := range contracts.Planets() {
			p, _ := s.Sidereal.Planet(b)
			printPlacement(w, p)
		}
		for _, n := range s.Sidereal.Nodes {
			fmt.Fprintf(w, "  (%s node)\n", n.Variant)
			printPlacement(w, n.Rahu)
			printPlacement(w, n.Ketu)
		}
	} else {
		fmt.Fprintf(w, "  [Sidereal] unavailable: %s (%s)\n", s.Status.Sidereal.Error, s.Status.Sidereal.Kind)
	}
	fmt.Fprintln(w, ruleHeavy)
}

func printPlacement(w io.Writer, p contracts.Placement) {
	sd := p.SignDegree
	line := fmt.Sprintf("  %-10s %-11s %2d°%02d′  decan %d  house %2d", p.Body, sd.Sign, sd.Degree, sd.Minute, sd.Decan, p.House)
	if p.Nakshatra != nil {
		line += fmt.Sprintf("  %s pada %d", p.Nakshatra.Nakshatra, p.Nakshatra.Pada)
	}
	fmt.Fprintln(w, line)
}

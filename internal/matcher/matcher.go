// Package matcher implements the fuzzy rules that relate a vehicle
// description to the rows and columns of insurer pricing tables.
package matcher

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/soat-quoter/internal/normalizer"
)

// Matcher evaluates class and seat cells against user values.
type Matcher struct {
	rules *normalizer.Rules
}

func New(rules *normalizer.Rules) *Matcher {
	return &Matcher{rules: rules}
}

// Rules returns the configuration the matcher was built with.
func (m *Matcher) Rules() *normalizer.Rules { return m.rules }

// ClassMatches reports whether a table class cell covers the user's class.
// The checks run in a fixed order and the first decisive one wins.
func (m *Matcher) ClassMatches(tableValue, userValue string) bool {
	txt := normalizer.Normalize(tableValue)
	usr := normalizer.Normalize(userValue)

	if txt == usr {
		return true
	}
	if normalizer.Contains(m.rules.Markers.Generic, txt) {
		return true
	}
	switch usr {
	case "PICK UP":
		return strings.Contains(txt, "PICK")
	case "CAMION":
		return strings.Contains(txt, "CAMION") && !strings.Contains(txt, "CAMIONETA")
	}
	if usr == "STATION WAGON" && strings.Contains(txt, "SW") {
		return true
	}
	if strings.Contains(usr, "MOTO") {
		return motoMatches(txt, usr)
	}
	return strings.Contains(txt, usr)
}

// motoMatches keeps two-wheelers, three-wheelers and quads apart: a
// MOTOCICLETA never matches a TRIMOTO row and unknown moto classes never
// match by substring.
func motoMatches(txt, usr string) bool {
	switch usr {
	case "MOTOCICLETA":
		return txt == "MOTOCICLETA"
	case "MOTOCICLETA ELECTRICA":
		return strings.Contains(txt, "ELECTRICA")
	case "CUATRIMOTO":
		return strings.Contains(txt, "CUATRI")
	case "TRIMOTO":
		return strings.Contains(txt, "TRIMOTO")
	}
	return false
}

var firstNumber = regexp.MustCompile(`\d+`)

// SeatsMatch reports whether a seat cell (a number, a generic marker, a
// range "A-B" or "HASTA N") admits the given seat count.
func (m *Matcher) SeatsMatch(tableValue string, seats int) bool {
	txt := normalizer.Normalize(tableValue)

	if strconv.Itoa(seats) == txt {
		return true
	}
	if normalizer.Contains(m.rules.Markers.Generic, txt) {
		return true
	}
	if strings.Contains(txt, "-") {
		if lo, hi, ok := parseRange(txt); ok {
			return lo <= seats && seats <= hi
		}
	}
	if strings.Contains(txt, "HASTA") {
		if n := firstNumber.FindString(txt); n != "" {
			limit, err := strconv.Atoi(n)
			if err == nil {
				return seats <= limit
			}
		}
	}
	return false
}

func parseRange(txt string) (int, int, bool) {
	parts := strings.Split(txt, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

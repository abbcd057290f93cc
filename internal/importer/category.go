package importer

import (
	"regexp"
	"strings"
)

// categoryPattern classifies a package by its CRM name. Patterns are
// tried in order against the uppercased name; first match wins, so
// specific patterns sit before general ones. An exclude pattern
// carves exceptions out of a broad match, standing in for the
// negative lookaheads Go's regexp lacks.
type categoryPattern struct {
	match   *regexp.Regexp
	exclude *regexp.Regexp
	name    string
}

var categoryPatterns = []categoryPattern{
	{match: regexp.MustCompile(`PANEL|SERVICE.*PANEL|SUB PANEL`), name: "Panel Upgrades"},
	{match: regexp.MustCompile(`SURGE`), name: "Surge Protection"},
	{match: regexp.MustCompile(`E CAR|EV CIRCUIT|EV CHARGER`), name: "EV Charging"},
	{match: regexp.MustCompile(`HOT TUB`), name: "Hot Tub Circuits"},
	{match: regexp.MustCompile(`240V.*CKT`), exclude: regexp.MustCompile(`240V.*CKT.*EV`), name: "Heavy Duty Circuits"},
	{match: regexp.MustCompile(`OUTLET.*WP|WP.*OUTLET`), name: "Exterior Outlets"},
	{match: regexp.MustCompile(`FLOOD|SOFFIT|COACH LT|LANDSCAPE`), name: "Exterior Lighting"},
	{match: regexp.MustCompile(`RCAN|WAFER|RECESSED`), name: "Recessed Lighting"},
	{match: regexp.MustCompile(`TAPE LT`), name: "LED Tape Lighting"},
	{match: regexp.MustCompile(`OUTLET|SWITCH|DIMMER|RECEPTACLE`), exclude: regexp.MustCompile(`(OUTLET|SWITCH|DIMMER|RECEPTACLE).*WP`), name: "Outlets & Switches"},
	{match: regexp.MustCompile(`FIXTURE|LIGHT BOX|CHANDELIER|PENDANT`), name: "Interior Lighting"},
	{match: regexp.MustCompile(`FAN|CEILING FAN`), name: "Ceiling Fans"},
	{match: regexp.MustCompile(`EXHAUST|BATH FAN|VENT FAN`), name: "Bathrooms"},
	{match: regexp.MustCompile(`GEN |GENERATOR|18KW|22KW|24KW|26KW`), name: "Home Generators"},
	{match: regexp.MustCompile(`INTERLOCK`), name: "Portable Generator"},
	{match: regexp.MustCompile(`AIR CONDITIONER|A/C|AC CIRCUIT`), name: "HVAC Circuits"},
	{match: regexp.MustCompile(`SMOKE|CARBON|CO DETECTOR`), name: "Safety Devices"},
	{match: regexp.MustCompile(`GFCI|GFI`), name: "GFCI Protection"},
	{match: regexp.MustCompile(`BREAKER`), name: "Breakers"},
}

// Categorize maps a CRM package name to its browse category.
func Categorize(name string) string {
	upper := strings.ToUpper(name)
	for _, p := range categoryPatterns {
		if !p.match.MatchString(upper) {
			continue
		}
		if p.exclude != nil && p.exclude.MatchString(upper) {
			continue
		}
		return p.name
	}
	return "Other Services"
}

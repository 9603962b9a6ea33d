package export

import (
	"regexp"
	"strings"
)

// colorPair is a fill/font colour combination in RGB hex.
type colorPair struct {
	Fill string
	Font string
}

// Classification colours used by the table pathway, matching the on-screen
// conditional formatting palette.
var (
	classGreen  = colorPair{Fill: "C6EFCE", Font: "006100"}
	classRed    = colorPair{Fill: "FFC7CE", Font: "9C0006"}
	classYellow = colorPair{Fill: "FFEB9C", Font: "9C6500"}

	// themeFallback applies when the active theme's palette is empty or
	// malformed.
	themeFallback = colorPair{Fill: "FCE7F3", Font: "9D174D"}
)

// Theme carries the active display theme's fill/font pair, as resolved from
// the front-end's CSS variables.
type Theme struct {
	Fill string
	Font string
}

var hexColorRegex = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// resolveTheme validates the theme pair, falling back to the hard-coded
// default when either side is missing or not 6-digit hex.
func resolveTheme(theme Theme) colorPair {
	fill := strings.TrimPrefix(strings.TrimSpace(theme.Fill), "#")
	font := strings.TrimPrefix(strings.TrimSpace(theme.Font), "#")
	if !hexColorRegex.MatchString(fill) || !hexColorRegex.MatchString(font) {
		return themeFallback
	}
	return colorPair{Fill: strings.ToUpper(fill), Font: strings.ToUpper(font)}
}

// classColor maps a cell's CSS class tokens to its export colours. Zebra
// striping is visual only and never reaches here; callers skip those rows.
func classColor(classes []string, theme Theme) (colorPair, bool) {
	for _, class := range classes {
		switch class {
		case "green":
			return classGreen, true
		case "red":
			return classRed, true
		case "yellow":
			return classYellow, true
		case "theme":
			return resolveTheme(theme), true
		}
	}
	return colorPair{}, false
}

// namedColors is the declarative pathway's direct colour table. It is
// intentionally separate from the CSS-class palette above: declarative
// sheets are print-oriented and use stronger fills.
var namedColors = map[string]colorPair{
	"green":  {Fill: "4CAF50", Font: "FFFFFF"},
	"red":    {Fill: "F44336", Font: "FFFFFF"},
	"yellow": {Fill: "FFC107", Font: "000000"},
	"orange": {Fill: "ED7D31", Font: "FFFFFF"},
	"grey":   {Fill: "9E9E9E", Font: "FFFFFF"},
	"navy":   {Fill: "1F4E78", Font: "FFFFFF"},
	"white":  {Fill: "FFFFFF", Font: "000000"},
}

func namedColor(name string) (colorPair, bool) {
	c, ok := namedColors[strings.ToLower(name)]
	return c, ok
}

func hasClass(classes []string, want string) bool {
	for _, class := range classes {
		if class == want {
			return true
		}
	}
	return false
}

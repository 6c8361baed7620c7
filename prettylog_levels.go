package prettylog

import (
	"github.com/fatih/color"
)

// defaultLevelLabel is rendered for any level code outside the fixed table.
const defaultLevelLabel = "USERLVL"

// levelLabels is the closed mapping from wire level codes to severity labels.
var levelLabels = map[int]string{
	10: "TRACE",
	20: "DEBUG",
	30: "INFO",
	40: "WARN",
	50: "ERROR",
	60: "FATAL",
}

// levelColors pairs each level with its terminal style.
var levelColors = map[int]*color.Color{
	10: color.New(color.FgHiBlack),
	20: color.New(color.FgBlue),
	30: color.New(color.FgGreen),
	40: color.New(color.FgYellow),
	50: color.New(color.FgRed),
	60: color.New(color.BgRed),
}

var defaultLevelColor = color.New(color.FgWhite)

// styleFunc transforms a severity label for display. There are exactly two
// shapes: the identity (colorize off) and an ANSI style bound at construction.
type styleFunc func(string) string

func identityStyle(s string) string { return s }

// newLevelStyles resolves the style for every known level plus the default
// label once, at construction time. With colorize on the ANSI codes are forced
// regardless of whether output is a terminal; the caller already decided.
func newLevelStyles(colorize bool) (map[int]styleFunc, styleFunc) {
	styles := make(map[int]styleFunc, len(levelColors))
	if !colorize {
		for code := range levelColors {
			styles[code] = identityStyle
		}
		return styles, identityStyle
	}
	for code, c := range levelColors {
		styles[code] = forcedSprint(c)
	}
	return styles, forcedSprint(defaultLevelColor)
}

func forcedSprint(c *color.Color) styleFunc {
	forced := *c
	forced.EnableColor()
	f := forced.SprintFunc()
	return func(s string) string { return f(s) }
}

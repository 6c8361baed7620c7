package prettylog

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type LevelsSuite struct {
	suite.Suite
}

func (suite *LevelsSuite) TestTableIsClosed() {
	suite.Equal(map[int]string{
		10: "TRACE",
		20: "DEBUG",
		30: "INFO",
		40: "WARN",
		50: "ERROR",
		60: "FATAL",
	}, levelLabels)

	for code := range levelLabels {
		suite.Contains(levelColors, code)
	}
	suite.Len(levelColors, len(levelLabels))
}

func (suite *LevelsSuite) TestIdentityStylesWhenColorizeOff() {
	styles, def := newLevelStyles(false)

	suite.Equal("FATAL", styles[60]("FATAL"))
	suite.Equal(defaultLevelLabel, def(defaultLevelLabel))
	for code := range levelLabels {
		suite.Equal(levelLabels[code], styles[code](levelLabels[code]))
	}
}

func (suite *LevelsSuite) TestAnsiStylesWhenColorizeOn() {
	styles, def := newLevelStyles(true)

	// forced styles emit escapes even when no terminal is attached
	suite.Equal("\x1b[32mINFO\x1b[0m", styles[30]("INFO"))
	suite.Equal("\x1b[33mWARN\x1b[0m", styles[40]("WARN"))
	suite.Equal("\x1b[31mERROR\x1b[0m", styles[50]("ERROR"))
	suite.Equal("\x1b[41mFATAL\x1b[0m", styles[60]("FATAL"))
	suite.Equal("\x1b[37mUSERLVL\x1b[0m", def("USERLVL"))
}

func (suite *LevelsSuite) TestStylingDoesNotMutateSharedColors() {
	_, _ = newLevelStyles(true)

	// the shared table entries stay untouched for future identity formatters
	styles, _ := newLevelStyles(false)
	suite.Equal("INFO", styles[30]("INFO"))
}

func TestLevelsSuite(t *testing.T) {
	suite.Run(t, new(LevelsSuite))
}

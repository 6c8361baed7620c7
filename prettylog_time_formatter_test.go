package prettylog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TimeFormatterSuite struct {
	suite.Suite
}

// 2017-07-14 02:40:00.123 UTC
var testInstant = time.Date(2017, 7, 14, 2, 40, 0, 123*int(time.Millisecond), time.UTC)

func (suite *TimeFormatterSuite) TestDefaultPattern() {
	suite.Equal("2017-07-14 02:40:00.123 +0000", formatPattern(testInstant, DefaultDateFormat))
}

func (suite *TimeFormatterSuite) TestTokens() {
	testCases := []struct {
		pattern  string
		expected string
	}{
		{"yyyy", "2017"},
		{"yy", "17"},
		{"mm", "07"},
		{"m", "7"},
		{"dd", "14"},
		{"d", "14"},
		{"HH", "02"},
		{"H", "2"},
		{"hh", "02"},
		{"h", "2"},
		{"MM", "40"},
		{"M", "40"},
		{"ss", "00"},
		{"s", "0"},
		{"l", "123"},
		{"L", "12"},
		{"o", "+0000"},
		{"TT", "AM"},
		{"tt", "am"},
		{"T", "A"},
		{"t", "a"},
		{"yyyy-mm-dd", "2017-07-14"},
		{"HH:MM:ss", "02:40:00"},
	}

	for _, tc := range testCases {
		suite.Run(tc.pattern, func() {
			suite.Equal(tc.expected, formatPattern(testInstant, tc.pattern))
		})
	}
}

func (suite *TimeFormatterSuite) TestTwelveHourClock() {
	afternoon := time.Date(2017, 7, 14, 15, 5, 0, 0, time.UTC)
	midnight := time.Date(2017, 7, 14, 0, 5, 0, 0, time.UTC)

	suite.Equal("3:05 PM", formatPattern(afternoon, "h:MM TT"))
	suite.Equal("12:05 AM", formatPattern(midnight, "h:MM TT"))
}

func (suite *TimeFormatterSuite) TestQuotedLiteral() {
	suite.Equal("at 02:40", formatPattern(testInstant, "'at' HH:MM"))
	suite.Equal("mm", formatPattern(testInstant, "'mm'"))
}

func (suite *TimeFormatterSuite) TestUnknownCharactersPassThrough() {
	suite.Equal("2017/x/14", formatPattern(testInstant, "yyyy/x/dd"))
}

func (suite *TimeFormatterSuite) TestTranslateEpochMillisUTC() {
	out, err := translateEpochMillis(json.Number("1500000000000"), DefaultDateFormat, false)
	suite.NoError(err)
	suite.Equal("2017-07-14 02:40:00.000 +0000", out)
}

func (suite *TimeFormatterSuite) TestTranslateEpochMillisLocal() {
	out, err := translateEpochMillis(json.Number("1500000000000"), "yyyy", true)
	suite.NoError(err)
	// the local calendar year around this instant is 2017 in every zone
	suite.Equal("2017", out)
}

func (suite *TimeFormatterSuite) TestTranslateFractionalEpoch() {
	out, err := translateEpochMillis(json.Number("1500000000000.7"), "HH:MM:ss", false)
	suite.NoError(err)
	suite.Equal("02:40:00", out)
}

func (suite *TimeFormatterSuite) TestTranslateOutOfRange() {
	_, err := translateEpochMillis(json.Number("1e400"), DefaultDateFormat, false)
	suite.Error(err)
}

func TestTimeFormatterSuite(t *testing.T) {
	suite.Run(t, new(TimeFormatterSuite))
}

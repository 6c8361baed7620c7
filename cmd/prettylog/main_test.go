package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CommandSuite struct {
	suite.Suite
}

func (suite *CommandSuite) runCommand(input string, tty bool, args ...string) (string, error) {
	var out bytes.Buffer
	a := &app{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		stdin:     strings.NewReader(input),
		stdout:    &out,
		stdoutTTY: tty,
	}
	err := newCommand(a).Run(context.Background(), append([]string{"prettylog"}, args...))
	return out.String(), err
}

func (suite *CommandSuite) TestMixedStream() {
	input := "plain line\n" +
		`{"v":1,"level":30,"time":3,"msg":"hello"}` + "\n" +
		"another plain line\n"

	out, err := suite.runCommand(input, false)
	suite.NoError(err)
	suite.Equal("plain line\n[3] INFO: hello\nanother plain line\n", out)
}

func (suite *CommandSuite) TestFormatterFlags() {
	record := `{"v":1,"level":40,"time":3,"note":"careful"}` + "\n"

	out, err := suite.runCommand(record, false, "--level-first", "--message-key", "note")
	suite.NoError(err)
	suite.Equal("WARN [3]: careful\n", out)
}

func (suite *CommandSuite) TestTranslateTimeFlag() {
	record := `{"v":1,"level":30,"time":1500000000000,"msg":"hi"}` + "\n"

	out, err := suite.runCommand(record, false, "--translate-time")
	suite.NoError(err)
	suite.Equal("[2017-07-14 02:40:00.000 +0000] INFO: hi\n", out)
}

func (suite *CommandSuite) TestColorizeFollowsTerminal() {
	record := `{"v":1,"level":30,"time":3,"msg":"hi"}` + "\n"

	out, err := suite.runCommand(record, true)
	suite.NoError(err)
	suite.Contains(out, "\x1b[32mINFO\x1b[0m")

	out, err = suite.runCommand(record, false)
	suite.NoError(err)
	suite.NotContains(out, "\x1b[")

	// explicit flag wins over terminal detection
	out, err = suite.runCommand(record, true, "--colorize=false")
	suite.NoError(err)
	suite.NotContains(out, "\x1b[")
}

func (suite *CommandSuite) TestConfigFile() {
	path := filepath.Join(suite.T().TempDir(), "prettylog.yaml")
	cfg := "levelFirst: true\nmessageKey: note\n"
	suite.Require().NoError(os.WriteFile(path, []byte(cfg), 0o600))

	record := `{"v":1,"level":30,"time":3,"note":"from file"}` + "\n"

	out, err := suite.runCommand(record, false, "--config", path)
	suite.NoError(err)
	suite.Equal("INFO [3]: from file\n", out)
}

func (suite *CommandSuite) TestFlagOverridesConfigFile() {
	path := filepath.Join(suite.T().TempDir(), "prettylog.yaml")
	cfg := "messageKey: note\n"
	suite.Require().NoError(os.WriteFile(path, []byte(cfg), 0o600))

	record := `{"v":1,"level":30,"time":3,"other":"flag wins","note":"file loses"}` + "\n"

	out, err := suite.runCommand(record, false, "--config", path, "--message-key", "other")
	suite.NoError(err)
	suite.True(strings.HasPrefix(out, "[3] INFO: flag wins\n"), "got: %s", out)
}

func (suite *CommandSuite) TestMissingConfigFile() {
	_, err := suite.runCommand("", false, "--config", "/nonexistent/prettylog.yaml")
	suite.Error(err)
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandSuite))
}

// Command prettylog reads newline-delimited JSON log records on stdin and
// writes a human-readable rendering to stdout. Lines that are not structured
// log records pass through untouched, so it is safe in the middle of any
// pipeline.
package main

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"prettylog"
)

// overridden during build with ldflags
var version = "dev"

// maxLineBytes bounds a single input line; anything longer is an input error.
const maxLineBytes = 16 * 1024 * 1024

type app struct {
	logger    *slog.Logger
	stdin     io.Reader
	stdout    io.Writer
	stdoutTTY bool
}

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:   slog.LevelInfo,
		NoColor: !stderrIsTerminal(),
	}))

	a := &app{
		logger:    logger,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stdoutTTY: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
	if err := newCommand(a).Run(context.Background(), os.Args); err != nil {
		logger.Error("prettylog failed", "error", err)
		os.Exit(1)
	}
}

func stderrIsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func newCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:    "prettylog",
		Usage:   "Render NDJSON log records as human-readable text",
		Version: version,
		Description: `Reads one JSON log record per line from stdin and prints a formatted,
optionally colorized rendering to stdout. Lines that are not recognized as
log records are passed through unmodified.

Options may also be supplied via a YAML config file (--config); command-line
flags take precedence over the file.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "colorize",
				Aliases: []string{"c"},
				Usage:   "Force ANSI colors (default: on when stdout is a terminal)",
				Sources: cli.EnvVars("PRETTYLOG_COLORIZE"),
			},
			&cli.BoolFlag{
				Name:    "crlf",
				Usage:   "Terminate output lines with CRLF instead of LF",
				Sources: cli.EnvVars("PRETTYLOG_CRLF"),
			},
			&cli.StringFlag{
				Name:    "date-format",
				Usage:   "Date pattern applied when --translate-time is set",
				Value:   prettylog.DefaultDateFormat,
				Sources: cli.EnvVars("PRETTYLOG_DATE_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "error-like-object-keys",
				Usage:   "Comma-separated keys rendered as nested error objects",
				Value:   strings.Join(prettylog.DefaultErrorLikeObjectKeys(), ","),
				Sources: cli.EnvVars("PRETTYLOG_ERROR_LIKE_OBJECT_KEYS"),
			},
			&cli.StringFlag{
				Name:    "error-props",
				Usage:   "Comma-separated extra properties to print for error records, or * for all",
				Sources: cli.EnvVars("PRETTYLOG_ERROR_PROPS"),
			},
			&cli.BoolFlag{
				Name:    "level-first",
				Aliases: []string{"l"},
				Usage:   "Print the severity label before the timestamp",
				Sources: cli.EnvVars("PRETTYLOG_LEVEL_FIRST"),
			},
			&cli.BoolFlag{
				Name:    "local-time",
				Usage:   "Translate timestamps into the system time zone instead of UTC",
				Sources: cli.EnvVars("PRETTYLOG_LOCAL_TIME"),
			},
			&cli.StringFlag{
				Name:    "message-key",
				Aliases: []string{"m"},
				Usage:   "Record field holding the log message",
				Value:   prettylog.DefaultMessageKey,
				Sources: cli.EnvVars("PRETTYLOG_MESSAGE_KEY"),
			},
			&cli.BoolFlag{
				Name:    "translate-time",
				Aliases: []string{"t"},
				Usage:   "Reformat the numeric timestamp with --date-format",
				Sources: cli.EnvVars("PRETTYLOG_TRANSLATE_TIME"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML file with formatter options",
				Sources: cli.EnvVars("PRETTYLOG_CONFIG"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var file fileOptions
			if path := cmd.String("config"); path != "" {
				loaded, err := loadFileOptions(path)
				if err != nil {
					return err
				}
				file = loaded
			}
			return a.process(ctx, resolveConfig(cmd, file, a.stdoutTTY))
		},
	}
}

// fileOptions mirrors prettylog.Config for the YAML config file. Pointer
// fields distinguish "absent" from a zero value so flags and defaults layer
// correctly underneath.
type fileOptions struct {
	Colorize            *bool    `yaml:"colorize"`
	CRLF                *bool    `yaml:"crlf"`
	DateFormat          *string  `yaml:"dateFormat"`
	ErrorLikeObjectKeys []string `yaml:"errorLikeObjectKeys"`
	ErrorProps          *string  `yaml:"errorProps"`
	LevelFirst          *bool    `yaml:"levelFirst"`
	LocalTime           *bool    `yaml:"localTime"`
	MessageKey          *string  `yaml:"messageKey"`
	TranslateTime       *bool    `yaml:"translateTime"`
}

func loadFileOptions(path string) (fileOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileOptions{}, errors.WithStack(err)
	}
	var opts fileOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return fileOptions{}, errors.Wrapf(err, "parsing config file %s", path)
	}
	return opts, nil
}

// resolveConfig layers defaults, the config file and explicit flags, in that
// order. Colorize with nothing set follows whether stdout is a terminal.
func resolveConfig(cmd *cli.Command, file fileOptions, stdoutTTY bool) prettylog.Config {
	cfg := prettylog.Config{Colorize: stdoutTTY}

	if file.Colorize != nil {
		cfg.Colorize = *file.Colorize
	}
	if file.CRLF != nil {
		cfg.CRLF = *file.CRLF
	}
	if file.DateFormat != nil {
		cfg.DateFormat = *file.DateFormat
	}
	if file.ErrorLikeObjectKeys != nil {
		cfg.ErrorLikeObjectKeys = file.ErrorLikeObjectKeys
	}
	if file.ErrorProps != nil {
		cfg.ErrorProps = *file.ErrorProps
	}
	if file.LevelFirst != nil {
		cfg.LevelFirst = *file.LevelFirst
	}
	if file.LocalTime != nil {
		cfg.LocalTime = *file.LocalTime
	}
	if file.MessageKey != nil {
		cfg.MessageKey = *file.MessageKey
	}
	if file.TranslateTime != nil {
		cfg.TranslateTime = *file.TranslateTime
	}

	if cmd.IsSet("colorize") {
		cfg.Colorize = cmd.Bool("colorize")
	}
	if cmd.IsSet("crlf") {
		cfg.CRLF = cmd.Bool("crlf")
	}
	if cmd.IsSet("date-format") {
		cfg.DateFormat = cmd.String("date-format")
	}
	if cmd.IsSet("error-like-object-keys") {
		cfg.ErrorLikeObjectKeys = strings.Split(cmd.String("error-like-object-keys"), ",")
	}
	if cmd.IsSet("error-props") {
		cfg.ErrorProps = cmd.String("error-props")
	}
	if cmd.IsSet("level-first") {
		cfg.LevelFirst = cmd.Bool("level-first")
	}
	if cmd.IsSet("local-time") {
		cfg.LocalTime = cmd.Bool("local-time")
	}
	if cmd.IsSet("message-key") {
		cfg.MessageKey = cmd.String("message-key")
	}
	if cmd.IsSet("translate-time") {
		cfg.TranslateTime = cmd.Bool("translate-time")
	}
	return cfg
}

// process pumps stdin through the formatter line by line.
func (a *app) process(ctx context.Context, cfg prettylog.Config) error {
	format := prettylog.NewFormatFunc(cfg)

	scanner := bufio.NewScanner(a.stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	w := bufio.NewWriter(a.stdout)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return errors.WithStack(err)
		}
		if _, err := w.WriteString(format(scanner.Text())); err != nil {
			return errors.Wrap(err, "writing output")
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading input")
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "flushing output")
	}
	return nil
}

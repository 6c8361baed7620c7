// Package prettylog renders newline-delimited JSON log records as indented,
// optionally colorized, human-readable text.
//
// Each input line is handled independently: a line recognized as a structured
// log record (a JSON object carrying the schema marker v == 1) is expanded
// into a header line plus indented body lines; anything else passes through
// unchanged, so the formatter is safe to place on a stream of mixed output.
//
// # Basic Usage
//
//	p := prettylog.New(prettylog.Config{
//	    TranslateTime: true,
//	    Colorize:      true,
//	})
//	for scanner.Scan() {
//	    os.Stdout.WriteString(p.Format(scanner.Text()))
//	}
//
// A record such as
//
//	{"v":1,"level":30,"time":1500000000000,"msg":"hello","pid":1,"hostname":"h"}
//
// renders as
//
//	[2017-07-14 02:40:00.000 +0000] INFO (1 on h): hello
//
// Error records (type == "Error") render their stack trace as an indented
// block, and any remaining fields flatten recursively into `key: value`
// lines. Keys listed in Config.ErrorLikeObjectKeys are treated as nested
// error objects: a "stack" string buried inside them is re-expanded into
// real, aligned lines instead of one escaped string.
//
// # Concurrency
//
// A Prettifier is immutable after New and carries no per-call state, so a
// single instance may be shared freely across goroutines.
package prettylog

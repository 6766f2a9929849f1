package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/vegasq/colq/executor"
	"github.com/vegasq/colq/internal/config"
	"github.com/vegasq/colq/internal/repl"
	"github.com/vegasq/colq/output"
	"github.com/vegasq/colq/reader"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("colq", flag.ContinueOnError)
	fs.SetOutput(stderr)

	queryFlag := fs.String("q", "", "Run one query and exit (e.g. \"get name where age = 30\")")
	formatFlag := fs.String("f", "", "Output format: table, csv, jsonl")
	limitFlag := fs.Int("limit", 0, "Limit number of rows (0 = unlimited)")
	parallelFlag := fs.Int("parallel", 1, "Number of workers evaluating the filter")
	configFlag := fs.String("config", "", "Path to a TOML config file")
	logLevelFlag := fs.String("log-level", "", "Log level: debug, info, warn, error")
	noColorFlag := fs.Bool("no-color", false, "Disable coloured output")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: colq [options] <file|glob>\n\n")
		fmt.Fprintf(stderr, "Load a delimited or parquet file into memory and query it.\n\n")
		fmt.Fprintf(stderr, "IMPORTANT: All flags must come BEFORE file arguments.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  colq people.csv\n")
		fmt.Fprintf(stderr, "  colq -q 'get name city where age = \"30\"' people.csv\n")
		fmt.Fprintf(stderr, "  colq -f jsonl -q 'get name' 'logs/*.csv.gz'\n")
		fmt.Fprintf(stderr, "  colq -config colq.toml data.parquet\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		cfg, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	// Flags set on the command line override the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "f":
			cfg.Format = *formatFlag
		case "limit":
			cfg.Limit = *limitFlag
		case "parallel":
			cfg.Parallelism = *parallelFlag
		case "log-level":
			cfg.LogLevel = *logLevelFlag
		case "no-color":
			cfg.Color = cfg.Color && !*noColorFlag
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger := logrus.StandardLogger()
	logger.SetOutput(stderr)
	logger.SetLevel(cfg.Level())
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: !cfg.Color})

	if fs.NArg() < 1 {
		fmt.Fprintf(stderr, "Error: missing file argument\n\n")
		fs.Usage()
		return 1
	}
	filename := fs.Arg(0)

	ws, err := reader.Load(filename, reader.Options{Delimiter: cfg.DelimiterRune()})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(stderr, "Error: file '%s' not found\n", filename)
			fmt.Fprintf(stderr, "Please check the file path and try again.\n")
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}

	formatter, err := output.NewFormatter(cfg.Format, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if tf, ok := formatter.(*output.TableFormatter); ok {
		tf.SetMaxCellWidth(cfg.MaxCellWidth)
	}

	interactive := *queryFlag == "" && isTerminal(stdin)
	session := repl.New(ws,
		repl.WithOutput(stdout, stderr),
		repl.WithFormatter(formatter),
		repl.WithExecutorOptions(
			executor.WithLimit(cfg.Limit),
			executor.WithParallelism(cfg.Parallelism),
		),
		repl.WithColor(cfg.Color && isTerminal(stdout)),
		repl.WithLogger(logger),
		repl.WithPrompt(interactive),
		// Machine-readable output stays clean when it is piped
		repl.WithRowCount(strings.EqualFold(cfg.Format, output.FormatTable) || interactive),
	)

	if *queryFlag != "" {
		if _, err := session.Query(*queryFlag); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := session.Run(stdin); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

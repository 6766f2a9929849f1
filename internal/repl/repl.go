// Package repl runs an interactive query session over a working set.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vegasq/colq/executor"
	"github.com/vegasq/colq/output"
	"github.com/vegasq/colq/query"
	"github.com/vegasq/colq/workset"
)

// Prompt is printed before each line when the session is interactive.
const Prompt = "colq> "

// ErrUnknownCommand is returned for a line starting with '.' that names no
// meta command.
var ErrUnknownCommand = errors.New("unknown command")

const helpText = `Queries:
  get <col> [<col> ...] [@ <table>] [where <col> = <value> [and|or ...]]
  Comparisons are = and !=. and/or are applied left to right with equal precedence.

Commands:
  .columns        list the columns of the working set
  .stats          show storage blocks per column
  .ast <query>    print the parsed statement
  .help           show this help
  exit, .exit, .quit
`

// Session executes queries against one working set.
type Session struct {
	ws        *workset.WorkingSet
	formatter output.Formatter
	execOpts  []executor.Option
	out       io.Writer
	errOut    io.Writer
	prompt    bool
	counts    bool
	log       *logrus.Entry
	id        string

	promptColor *color.Color
	errColor    *color.Color
	countColor  *color.Color
}

// Option configures a Session.
type Option func(*Session)

// WithOutput sets where results and errors are written.
func WithOutput(out, errOut io.Writer) Option {
	return func(s *Session) {
		s.out = out
		s.errOut = errOut
	}
}

// WithFormatter sets the result formatter. The formatter's output is
// redirected to the session output.
func WithFormatter(f output.Formatter) Option {
	return func(s *Session) {
		s.formatter = f
	}
}

// WithExecutorOptions passes options to every query execution.
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Session) {
		s.execOpts = append(s.execOpts, opts...)
	}
}

// WithPrompt enables the prompt and the start-up banner.
func WithPrompt(enabled bool) Option {
	return func(s *Session) {
		s.prompt = enabled
	}
}

// WithRowCount controls the "N row(s)" line after each query.
func WithRowCount(enabled bool) Option {
	return func(s *Session) {
		s.counts = enabled
	}
}

// WithColor enables coloured prompt, errors and row counts.
func WithColor(enabled bool) Option {
	return func(s *Session) {
		for _, c := range []*color.Color{s.promptColor, s.errColor, s.countColor} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// WithLogger sets the logger; the session adds its id as a field.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Session) {
		s.log = l.WithField("session", s.id)
	}
}

// New creates a session. Defaults: table output to io.Discard, no prompt,
// row counts on, no colour.
func New(ws *workset.WorkingSet, opts ...Option) *Session {
	id := uuid.NewString()
	s := &Session{
		ws:          ws,
		out:         io.Discard,
		errOut:      io.Discard,
		counts:      true,
		id:          id,
		log:         logrus.WithField("session", id),
		promptColor: color.New(color.FgCyan, color.Bold),
		errColor:    color.New(color.FgRed),
		countColor:  color.New(color.Faint),
	}
	WithColor(false)(s)
	for _, opt := range opts {
		opt(s)
	}
	if s.formatter == nil {
		s.formatter = output.NewTableFormatter(s.out)
	}
	s.formatter.SetOutput(s.out)
	return s
}

// ID returns the session id used in log entries.
func (s *Session) ID() string {
	return s.id
}

// Run reads lines from in until EOF or an exit command. Query errors are
// printed and the loop continues; only a read error is returned.
func (s *Session) Run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), query.MaxQueryLength+1)

	s.log.WithFields(logrus.Fields{
		"columns": s.ws.Width(),
		"rows":    s.ws.Len(),
	}).Debug("session started")

	if s.prompt {
		fmt.Fprintf(s.out, "Available columns: %s\n", strings.Join(s.ws.Columns(), ", "))
	}

	for {
		if s.prompt {
			s.promptColor.Fprint(s.out, Prompt)
		}
		if !sc.Scan() {
			break
		}
		quit, err := s.Exec(sc.Text())
		if err != nil {
			s.errColor.Fprintf(s.errOut, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// Exec handles one input line. It reports whether the session should end.
func (s *Session) Exec(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	cmd, arg := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		cmd, arg = line[:i], strings.TrimSpace(line[i+1:])
	}

	switch cmd {
	case "exit", ".exit", ".quit":
		return true, nil
	case ".help":
		fmt.Fprint(s.out, helpText)
		return false, nil
	case ".columns":
		for i, name := range s.ws.Columns() {
			fmt.Fprintf(s.out, "%d\t%s\n", i, name)
		}
		return false, nil
	case ".stats":
		return false, s.stats()
	case ".ast":
		return false, s.ast(arg)
	}

	if strings.HasPrefix(cmd, ".") {
		return false, fmt.Errorf("%w: %s (try .help)", ErrUnknownCommand, cmd)
	}

	_, err := s.Query(line)
	return false, err
}

// Query parses, executes and prints one query, returning the row count.
func (s *Session) Query(q string) (int, error) {
	start := time.Now()

	stmt, err := query.Parse(q)
	if err != nil {
		return 0, err
	}

	res, err := executor.New(s.ws, s.execOpts...).Execute(stmt)
	if err != nil {
		return 0, err
	}

	table, err := output.Materialize(s.ws, res)
	if err != nil {
		return 0, err
	}
	if err := s.formatter.Format(table); err != nil {
		return 0, fmt.Errorf("failed to write result: %w", err)
	}

	if s.counts {
		s.countColor.Fprintln(s.out, rowCount(table.Len()))
	}

	s.log.WithFields(logrus.Fields{
		"query":   q,
		"rows":    table.Len(),
		"elapsed": time.Since(start),
	}).Debug("query executed")
	return table.Len(), nil
}

func (s *Session) stats() error {
	t := &output.Table{Columns: []string{"column", "blocks", "used", "free"}}
	for _, cs := range s.ws.Stats() {
		t.Rows = append(t.Rows, []string{
			cs.Name,
			strconv.Itoa(cs.Blocks),
			strconv.Itoa(cs.UsedBytes),
			strconv.Itoa(cs.FreeBytes),
		})
	}
	return output.NewTableFormatter(s.out).Format(t)
}

func (s *Session) ast(q string) error {
	if q == "" {
		return fmt.Errorf("usage: .ast <query>")
	}
	stmt, err := query.Parse(q)
	if err != nil {
		return err
	}
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	cfg.Fdump(s.out, stmt)
	return nil
}

func rowCount(n int) string {
	return fmt.Sprintf("%d row(s)", n)
}

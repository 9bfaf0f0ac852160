// Command rulematch counts the messages matching a rule set, before and after
// replacing some of its rules.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
	"go.uber.org/zap"

	"github.com/alecthomas/rulematch"
	"github.com/alecthomas/rulematch/grammar"
)

var version = "dev"

type CLI struct {
	Version kong.VersionFlag `help:"Show version."`
	Debug   bool             `help:"Enable debug logging."`
	Dump    bool             `help:"Print the parsed rule sets."`
	Start   uint             `help:"Rule that messages must match." default:"0"`
	Workers int              `help:"Number of messages matched concurrently." default:"${workers}"`
	Replace []string         `help:"Rule definitions applied for the patched count." sep:";" default:"8: 42 | 42 8;11: 42 31 | 42 11 31"`
	Input   string           `arg:"" default:"-" type:"existingfile" help:"Rules followed by a blank line and messages (read from stdin if omitted)."`
}

func (c *CLI) Help() string {
	return `
Rules are read one per line, up to the first blank line, in the form

  0: 4 1 5
  1: 2 3 | 3 2
  4: "a"

Every following line is a message. Two counts are printed: messages matching
the start rule in the rule set as read, and after applying --replace.
`
}

func (c *CLI) Run(ctx context.Context, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	// kong leaves an omitted existingfile argument empty rather than "-".
	r := stdin
	if c.Input != "" && c.Input != "-" {
		f, err := os.Open(c.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	input, err := grammar.Parse(c.Input, r)
	if err != nil {
		return err
	}
	logger.Debug("parsed input",
		zap.String("input", c.Input),
		zap.Int("rules", len(input.Rules)),
		zap.Int("messages", len(input.Messages)))
	patched, err := grammar.Replace(input.Rules, c.Replace...)
	if err != nil {
		return fmt.Errorf("invalid replacement: %w", err)
	}
	start := rulematch.RuleID(c.Start)
	if c.Dump {
		p := repr.New(stdout, repr.Indent("  "))
		p.Println(input.Rules)
		p.Println(patched)
		dumpUnreachable(stdout, "original", input.Rules, start)
		dumpUnreachable(stdout, "patched", patched, start)
	}
	options := []rulematch.BatchOption{
		rulematch.Workers(c.Workers),
		rulematch.Logger(logger),
	}
	original, err := rulematch.Count(ctx, input.Rules, start, input.Messages, options...)
	if err != nil {
		return fmt.Errorf("original rules: %w", err)
	}
	replaced, err := rulematch.Count(ctx, patched, start, input.Messages, options...)
	if err != nil {
		return fmt.Errorf("patched rules: %w", err)
	}
	fmt.Fprintf(stdout, "original: %d\n", original)
	fmt.Fprintf(stdout, "patched: %d\n", replaced)
	return nil
}

func dumpUnreachable(w io.Writer, name string, rules rulematch.Rules, start rulematch.RuleID) {
	unreachable := rules.Unreachable(start)
	if len(unreachable) == 0 {
		return
	}
	ids := make([]string, len(unreachable))
	for i, id := range unreachable {
		ids[i] = id.String()
	}
	fmt.Fprintf(w, "%s: unreachable from %d: %s\n", name, start, strings.Join(ids, " "))
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Description(`Count messages matching a numbered rule set.`),
		kong.Vars{
			"version": version,
			"workers": strconv.Itoa(runtime.GOMAXPROCS(0)),
		},
	)
	logger, err := newLogger(cli.Debug)
	kctx.FatalIfErrorf(err)
	defer logger.Sync() // nolint: errcheck
	err = cli.Run(context.Background(), os.Stdin, os.Stdout, logger)
	kctx.FatalIfErrorf(err)
}

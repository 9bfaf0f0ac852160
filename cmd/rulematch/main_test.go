package main

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func parseCLI(t *testing.T, args ...string) *CLI {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test", "workers": "2"})
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return cli
}

func TestRunRecursiveSample(t *testing.T) {
	cli := parseCLI(t, "testdata/recursive.txt")
	require.Equal(t, []string{"8: 42 | 42 8", "11: 42 31 | 42 11 31"}, cli.Replace)
	out := &strings.Builder{}
	err := cli.Run(context.Background(), nil, out, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, "original: 3\npatched: 12\n", out.String())
}

func TestRunOmittedInputReadsStdin(t *testing.T) {
	cli := parseCLI(t, "--replace=0: 2")
	require.Contains(t, []string{"", "-"}, cli.Input)
	stdin := strings.NewReader("0: 1 2\n1: \"a\"\n2: \"b\"\n\nab\nba\n")
	out := &strings.Builder{}
	err := cli.Run(context.Background(), stdin, out, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, "original: 1\npatched: 0\n", out.String())

	cli.Input = "-"
	out.Reset()
	err = cli.Run(context.Background(), strings.NewReader("0: 1\n1: \"a\"\n2: \"b\"\n\na\n"), out, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, "original: 1\npatched: 0\n", out.String())
}

func TestRunIsQuietAtInfo(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cli := parseCLI(t, "--replace=0: 1")
	err := cli.Run(context.Background(), strings.NewReader("0: 1 1\n1: \"a\"\n\naa\n"), &strings.Builder{}, zap.New(core))
	require.NoError(t, err)
	require.Zero(t, logs.Len())
}

func TestRunStdin(t *testing.T) {
	cli := parseCLI(t, "--replace=1: 4 4 | 5 5", "--workers=1")
	stdin := strings.NewReader(`0: 4 1 5
1: 2 3 | 3 2
2: 4 4 | 5 5
3: 4 5 | 5 4
4: "a"
5: "b"

ababbb
bababa
abbbab
aaabbb
aaaabbb
abbb
`)
	out := &strings.Builder{}
	err := cli.Run(context.Background(), stdin, out, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, "original: 2\npatched: 1\n", out.String())
}

func TestRunDump(t *testing.T) {
	cli := parseCLI(t, "--dump", "--replace=0: 1")
	stdin := strings.NewReader("0: 1 1\n1: \"a\"\n2: \"b\"\n\naa\na\n")
	out := &strings.Builder{}
	err := cli.Run(context.Background(), stdin, out, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Contains(t, out.String(), "rulematch.Rules{")
	require.Contains(t, out.String(), "original: unreachable from 0: 2\n")
	require.Contains(t, out.String(), "patched: unreachable from 0: 2\n")
	require.True(t, strings.HasSuffix(out.String(), "original: 1\npatched: 1\n"), out.String())
}

func TestRunErrors(t *testing.T) {
	cli := parseCLI(t, "--replace=8 42")
	err := cli.Run(context.Background(), strings.NewReader("0: \"a\"\n\na\n"), &strings.Builder{}, zaptest.NewLogger(t))
	require.ErrorContains(t, err, "invalid replacement")

	cli = parseCLI(t)
	err = cli.Run(context.Background(), strings.NewReader("0: 1\n\na\n"), &strings.Builder{}, zaptest.NewLogger(t))
	require.EqualError(t, err, "original rules: rule 0 references unknown rule 1")
}

package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/wfpad/builder"
	"github.com/katalvlaran/wfpad/machine"
)

type AppSuite struct {
	suite.Suite
	out, logs bytes.Buffer
	seed      int64
}

func (s *AppSuite) SetupTest() {
	s.out.Reset()
	s.logs.Reset()
	s.seed = 7
}

func (s *AppSuite) app(mut func(*Config)) *App {
	cfg := Config{Seed: &s.seed, LogLevel: "debug", LogFormat: "text"}
	if mut != nil {
		mut(&cfg)
	}

	return New(&s.out, &s.logs, cfg)
}

func frontJob(name string) Job {
	return Job{Name: name, Cons: builder.Front(builder.FrontParams{Window: 14, Budget: 100, States: 3})}
}

func regulatorJob(name string) Job {
	return Job{Name: name, Cons: builder.Regulator(builder.RegulatorParams{
		InitialRate: 277, Decay: 0.94, Threshold: 3.55, UploadRatio: 3.95, CellsPerState: 100,
	})}
}

func (s *AppSuite) TestSingleCompact() {
	s.Require().NoError(s.app(nil).Run(context.Background(), frontJob("f")))

	lines := strings.Split(strings.TrimSpace(s.out.String()), "\n")
	s.Require().Len(lines, 1)
	name, enc, ok := strings.Cut(lines[0], " ")
	s.Require().True(ok)
	s.Equal(builder.FamilyFront, name)

	m, err := machine.Decode(enc)
	s.Require().NoError(err)
	s.Equal(4, m.Len())

	s.Contains(s.logs.String(), "Machine ready.")
	s.Contains(s.logs.String(), "Output written.")
}

func (s *AppSuite) TestReproducible() {
	jobs := []Job{frontJob("a"), frontJob("b"), regulatorJob("r")}
	s.Require().NoError(s.app(nil).Run(context.Background(), jobs...))
	first := s.out.String()

	s.out.Reset()
	s.Require().NoError(s.app(func(c *Config) { c.Parallelism = 1 }).Run(context.Background(), jobs...))
	s.Equal(first, s.out.String())

	s.Contains(first, "# front a\n")
	s.Contains(first, "# front b\n")
	s.Contains(first, "# regulator r\n")
	s.Contains(first, "\nrelay 02")
	s.Contains(first, "\nclient 02")
}

func (s *AppSuite) TestYAMLDocuments() {
	s.Require().NoError(s.app(func(c *Config) { c.Format = machine.FormatYAML }).
		Run(context.Background(), frontJob("a"), regulatorJob("r")))

	docs := strings.Split(s.out.String(), "---\n")
	s.Len(docs, 2)
	s.Contains(docs[0], "name: a")
	s.Contains(docs[1], "family: regulator")
}

func (s *AppSuite) TestOutputFile() {
	path := filepath.Join(s.T().TempDir(), "out.txt")
	s.Require().NoError(s.app(func(c *Config) { c.Output = path }).Run(context.Background(), frontJob("f")))

	s.Empty(s.out.String())
	b, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.True(strings.HasPrefix(string(b), "front 02"))
}

func (s *AppSuite) TestFailureWritesNothing() {
	bad := Job{Name: "bad", Cons: builder.Front(builder.FrontParams{Window: 0, Budget: 1, States: 1})}
	err := s.app(nil).Run(context.Background(), frontJob("ok"), bad)
	s.Require().ErrorIs(err, builder.ErrInvalidParameter)
	s.Contains(err.Error(), "bad")
	s.Empty(s.out.String())
}

func (s *AppSuite) TestRandomSeedIsLogged() {
	a := New(&s.out, &s.logs, Config{LogLevel: "info"})
	s.Require().NoError(a.Run(context.Background(), frontJob("f")))
	s.Contains(s.logs.String(), "pass --seed to reproduce")
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := newLogger("warn", "json", &buf)
	l.Info("hidden")
	l.Warn("shown", "k", "v")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	l = newLogger("bogus", "bogus", &buf)
	l.Debug("hidden")
	l.Info("shown")
	require.Equal(t, 1, strings.Count(buf.String(), "msg=shown"))
}

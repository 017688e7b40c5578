package domain_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"luaveil.dev/pkg/luaveil/internal/adapter"
	"luaveil.dev/pkg/luaveil/internal/controller"
	controllermocks "luaveil.dev/pkg/luaveil/internal/controller/mocks"
	"luaveil.dev/pkg/luaveil/internal/domain"
	m "luaveil.dev/pkg/luaveil/internal/model"
)

const (
	scriptA = "local a = 'first'\nprint(a)\nreturn #a"
	scriptB = "local function twice(n) return n * 2 end\nreturn twice(21)"
)

func writeScript(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newWorkflow(ui controller.UI, obfuscator domain.Obfuscator) domain.Workflow {
	return domain.NewWorkflow(
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewLocalLuaRunnerAdapter(0),
		adapter.NewYAMLSessionStore(),
		ui,
		obfuscator,
	)
}

func fixture(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeScript(t, filepath.Join(root, "a.lua"), scriptA)
	writeScript(t, filepath.Join(root, "sub", "b.lua"), scriptB)
	writeScript(t, filepath.Join(root, "notes.txt"), "ignored")

	return root
}

func TestWorkflow_Obfuscate_WritesVerifiedFiles(t *testing.T) {
	root := fixture(t)
	session := filepath.Join(root, ".luaveil", "session.yaml")

	ui := controllermocks.NewMockUI(t)
	ui.On("DisplayRunInfo", mock.Anything, mock.MatchedBy(func(info controller.RunInfo) bool {
		return info.Scripts == 2 && info.Seed == 7 && info.Threads == 2 && info.RunID != ""
	})).Once()
	ui.On("DisplayResults", mock.Anything, mock.MatchedBy(func(results []m.Result) bool {
		if len(results) != 2 {
			return false
		}

		for _, r := range results {
			if r.Err != nil || r.Verify != m.Equivalent {
				return false
			}
		}

		return results[0].Seed == 7 && results[1].Seed == 8
	})).Once()

	err := newWorkflow(ui, domain.NewObfuscator()).Obfuscate(context.Background(), domain.ObfuscateArgs{
		Settings: domain.Settings{
			Level: m.LevelMaximum, Seed: 7, Seeded: true, ControlFlowProbability: -1,
			Verify: true, Session: m.Path(session),
		},
		Paths:   []m.Path{m.Path(root + "/...")},
		Threads: 2,
	})
	require.NoError(t, err)

	for _, name := range []string{"a.obf.lua", filepath.Join("sub", "b.obf.lua")} {
		_, err := os.Stat(filepath.Join(root, name))
		assert.NoError(t, err, name)
	}

	saved, err := adapter.NewYAMLSessionStore().LoadSession(m.Path(session))
	require.NoError(t, err)
	assert.Equal(t, scriptB, saved.Input)
	assert.Equal(t, m.LevelMaximum, saved.Level)
	assert.NotEmpty(t, saved.Output)
}

func TestWorkflow_Obfuscate_OutputDirIsReproducible(t *testing.T) {
	t.Chdir(fixture(t))

	ui := controllermocks.NewMockUI(t)
	ui.On("DisplayRunInfo", mock.Anything, mock.Anything).Twice()
	ui.On("DisplayResults", mock.Anything, mock.Anything).Twice()

	wf := newWorkflow(ui, domain.NewObfuscator())

	for _, out := range []string{"one", "two"} {
		err := wf.Obfuscate(context.Background(), domain.ObfuscateArgs{
			Settings: domain.Settings{Level: m.LevelStandard, Seed: 3, Seeded: true, ControlFlowProbability: -1},
			Paths:    []m.Path{"a.lua", "sub/..."},
			Output:   m.Path(out),
		})
		require.NoError(t, err)
	}

	for _, name := range []string{"a.obf.lua", filepath.Join("sub", "b.obf.lua")} {
		one, err := os.ReadFile(filepath.Join("one", name))
		require.NoError(t, err)

		two, err := os.ReadFile(filepath.Join("two", name))
		require.NoError(t, err)

		assert.Equal(t, string(one), string(two), name)
	}
}

func TestWorkflow_Obfuscate_Examples(t *testing.T) {
	for _, level := range m.Levels {
		for _, seed := range []int64{1, 7, 11, 23, 42, 97, 256, 1024} {
			t.Run(fmt.Sprintf("%s/seed %d", level, seed), func(t *testing.T) {
				ui := controllermocks.NewMockUI(t)
				ui.On("DisplayRunInfo", mock.Anything, mock.Anything).Once()
				ui.On("DisplayResults", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
					results := args.Get(1).([]m.Result)
					assert.Len(t, results, 6)

					for _, r := range results {
						assert.NoError(t, r.Err, r.Source)
						assert.Equal(t, m.Equivalent, r.Verify, "%s: %s", r.Source, r.Detail)
					}
				}).Once()

				err := newWorkflow(ui, domain.NewObfuscator()).Obfuscate(context.Background(), domain.ObfuscateArgs{
					Settings: domain.Settings{Level: level, Seed: seed, Seeded: true, ControlFlowProbability: -1, Verify: true},
					Paths:    []m.Path{"../../examples/..."},
					Exclude:  []string{"invalid"},
					Output:   m.Path(t.TempDir()),
					Threads:  4,
				})
				require.NoError(t, err)
			})
		}
	}
}

func TestWorkflow_Obfuscate_Stdout(t *testing.T) {
	root := fixture(t)

	ui := controllermocks.NewMockUI(t)
	ui.On("DisplayScript", mock.Anything, mock.AnythingOfType("string")).Twice()

	err := newWorkflow(ui, domain.NewObfuscator()).Obfuscate(context.Background(), domain.ObfuscateArgs{
		Settings: domain.Settings{Level: m.LevelMinimal, ControlFlowProbability: -1},
		Paths:    []m.Path{m.Path(root + "/...")},
		Stdout:   true,
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "a.obf.lua"))
	assert.True(t, os.IsNotExist(err))
}

func TestWorkflow_Obfuscate_Diff(t *testing.T) {
	root := fixture(t)

	ui := controllermocks.NewMockUI(t)
	ui.On("DisplayRunInfo", mock.Anything, mock.Anything).Once()
	ui.On("DisplayDiff", mock.Anything, m.Path(filepath.Join(root, "a.lua")), scriptA, mock.AnythingOfType("string")).Once()
	ui.On("DisplayResults", mock.Anything, mock.Anything).Once()

	err := newWorkflow(ui, domain.NewObfuscator()).Obfuscate(context.Background(), domain.ObfuscateArgs{
		Settings: domain.Settings{Level: m.LevelMinimal, ControlFlowProbability: -1},
		Paths:    []m.Path{m.Path(filepath.Join(root, "a.lua"))},
		Diff:     true,
	})
	require.NoError(t, err)
}

type fixedObfuscator string

func (f fixedObfuscator) Obfuscate(string, m.Level, ...domain.Option) (string, error) {
	return string(f), nil
}

func TestWorkflow_Obfuscate_ReportsDivergence(t *testing.T) {
	root := fixture(t)

	ui := controllermocks.NewMockUI(t)
	ui.On("DisplayRunInfo", mock.Anything, mock.Anything).Once()
	ui.On("DisplayResults", mock.Anything, mock.MatchedBy(func(results []m.Result) bool {
		return len(results) == 1 && results[0].Verify == m.Diverged && results[0].Detail != ""
	})).Once()

	err := newWorkflow(ui, fixedObfuscator("return 0")).Obfuscate(context.Background(), domain.ObfuscateArgs{
		Settings: domain.Settings{Level: m.LevelStandard, Verify: true, ControlFlowProbability: -1},
		Paths:    []m.Path{m.Path(filepath.Join(root, "sub", "b.lua"))},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verification diverged")
}

func TestWorkflow_Obfuscate_Errors(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		ui := controllermocks.NewMockUI(t)

		err := newWorkflow(ui, domain.NewObfuscator()).Obfuscate(context.Background(), domain.ObfuscateArgs{
			Settings: domain.Settings{Level: 5},
			Paths:    []m.Path{"."},
		})
		assert.ErrorIs(t, err, m.ErrInvalidSeverity)
	})

	t.Run("no scripts", func(t *testing.T) {
		ui := controllermocks.NewMockUI(t)

		err := newWorkflow(ui, domain.NewObfuscator()).Obfuscate(context.Background(), domain.ObfuscateArgs{
			Settings: domain.Settings{Level: m.LevelMinimal},
			Paths:    []m.Path{m.Path(t.TempDir())},
		})
		assert.ErrorContains(t, err, "no .lua scripts found")
	})

	t.Run("missing path", func(t *testing.T) {
		ui := controllermocks.NewMockUI(t)

		err := newWorkflow(ui, domain.NewObfuscator()).Obfuscate(context.Background(), domain.ObfuscateArgs{
			Settings: domain.Settings{Level: m.LevelMinimal},
			Paths:    []m.Path{m.Path(filepath.Join(t.TempDir(), "missing.lua"))},
		})
		assert.ErrorContains(t, err, "get scripts")
	})
}

func TestWorkflow_ObfuscateStream(t *testing.T) {
	session := filepath.Join(t.TempDir(), "session.yaml")

	var printed string

	ui := controllermocks.NewMockUI(t)
	ui.On("DisplayScript", mock.Anything, mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
		printed = args.String(1)
	}).Once()

	err := newWorkflow(ui, domain.NewObfuscator()).ObfuscateStream(context.Background(), domain.StreamArgs{
		Settings: domain.Settings{Level: m.LevelStandard, Seed: 1, Seeded: true, ControlFlowProbability: -1, Verify: true, Session: m.Path(session)},
		Input:    strings.NewReader(scriptB),
	})
	require.NoError(t, err)

	saved, err := adapter.NewYAMLSessionStore().LoadSession(m.Path(session))
	require.NoError(t, err)
	assert.Equal(t, scriptB, saved.Input)
	assert.Equal(t, printed, saved.Output)
}

func TestWorkflow_Levels(t *testing.T) {
	ui := controllermocks.NewMockUI(t)
	ui.On("DisplayLevels", mock.Anything, mock.MatchedBy(func(levels []controller.LevelInfo) bool {
		return len(levels) == 3 &&
			levels[0].ControlFlow == 0 &&
			levels[1].ControlFlow == domain.StandardControlFlowProbability &&
			len(levels[2].Passes) == 5
	})).Once()

	require.NoError(t, newWorkflow(ui, domain.NewObfuscator()).Levels(context.Background()))
}

func TestWorkflow_Last(t *testing.T) {
	path := m.Path(filepath.Join(t.TempDir(), "session.yaml"))
	session := m.Session{Input: "return 1", Output: "return 1", Level: m.LevelMinimal}
	require.NoError(t, adapter.NewYAMLSessionStore().SaveSession(path, session))

	ui := controllermocks.NewMockUI(t)
	ui.On("DisplaySession", mock.Anything, session, controller.SessionInput).Once()

	wf := newWorkflow(ui, domain.NewObfuscator())
	require.NoError(t, wf.Last(context.Background(), domain.LastArgs{Session: path, Part: controller.SessionInput}))

	err := wf.Last(context.Background(), domain.LastArgs{Session: m.Path(filepath.Join(t.TempDir(), "none.yaml"))})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

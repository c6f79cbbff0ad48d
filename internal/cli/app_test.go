// SPDX-FileCopyrightText: 2025 The Iconpick Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/janderssonse/iconpick/internal/config"
	"github.com/janderssonse/iconpick/internal/console"
	"github.com/janderssonse/iconpick/internal/domain"
	"github.com/janderssonse/iconpick/internal/grid"
	"github.com/janderssonse/iconpick/internal/iconpack"
	"github.com/janderssonse/iconpick/internal/overrides"
	"github.com/janderssonse/iconpick/internal/tui"
	"github.com/janderssonse/iconpick/internal/tui/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureAppFilter = `<resources>
    <item component="ComponentInfo{org.mozilla.firefox/org.mozilla.firefox.App}" drawable="firefox"/>
    <item component="ComponentInfo{com.android.chrome/com.google.android.apps.chrome.Main}" drawable="chrome"/>
</resources>`

const fixtureDrawables = `<resources>
    <item drawable="firefox"/>
    <item drawable="chrome"/>
    <item drawable="calculator"/>
    <item drawable="ghost"/>
</resources>`

type testEnv struct {
	opts   []Option
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	config string
	packs  string
	data   string
	lock   string
}

func (e *testEnv) run(args ...string) error {
	base := []string{"iconpick", "--config", e.config, "--packs-dir", e.packs, "--data-dir", e.data}

	// urfave commands keep flag state, so every run gets a fresh tree.
	return NewCLI(e.opts...).Run(context.Background(), append(base, args...))
}

func writePNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	root := t.TempDir()
	packDir := filepath.Join(root, "packs", "testpack")
	require.NoError(t, os.MkdirAll(packDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(packDir, "appfilter.xml"), []byte(fixtureAppFilter), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(packDir, "drawable.xml"), []byte(fixtureDrawables), 0o600))

	for _, name := range []string{"firefox", "chrome", "calculator"} {
		writePNG(t, filepath.Join(packDir, name+".png"))
	}

	var stdout, stderr bytes.Buffer

	lockPath := filepath.Join(root, "pick.lock")

	defaults := []Option{
		WithOutput(console.NewWithWriters(&stdout, &stderr)),
		WithLockPath(lockPath),
		WithInteractive(func() bool { return false }),
		WithPrompter(func([]iconpack.Location) (string, error) {
			return "", errors.New("unexpected prompt")
		}),
		WithPickerRunner(func(context.Context, *models.Picker) (grid.Activation, error) {
			return grid.Activation{}, errors.New("unexpected picker")
		}),
	}

	return &testEnv{
		opts:   append(defaults, opts...),
		stdout: &stdout,
		stderr: &stderr,
		config: filepath.Join(root, "config", "config.toml"),
		packs:  filepath.Join(root, "packs"),
		data:   filepath.Join(root, "data"),
		lock:   lockPath,
	}
}

func requireExitCode(t *testing.T, err error, code int) *domain.ExitError {
	t.Helper()

	var exitErr *domain.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, code, exitErr.Code, exitErr.Error())

	return exitErr
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result), buf.String())

	return result
}

func TestNewCLI(t *testing.T) {
	t.Parallel()

	app := NewCLI()

	require.NotNil(t, app.app)
	assert.Equal(t, "iconpick", app.app.Name)
	assert.NotEmpty(t, app.app.Usage)

	commandNames := make(map[string]bool)
	for _, cmd := range app.app.Commands {
		commandNames[cmd.Name] = true
	}

	for _, expected := range []string{"pick", "list", "packs", "overrides", "config"} {
		assert.True(t, commandNames[expected], "command %s should exist", expected)
	}
}

func TestList_JSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	require.NoError(t, env.run("--json", "list", "--icon-pack", "testpack", "--app-package", "org.mozilla.firefox"))

	result := decode(t, env.stdout)
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, []any{"firefox"}, result["matching"])
	// ghost is declared but not shipped
	assert.Equal(t, []any{"firefox", "chrome", "calculator"}, result["all"])

	slots, ok := result["slots"].([]any)
	require.True(t, ok)
	require.Len(t, slots, 6)

	first, ok := slots[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "matching-header", first["kind"])
	assert.InDelta(t, float64(config.DefaultColumns), first["span"], 0)
}

func TestList_QueryPlain(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	require.NoError(t, env.run("--plain", "list", "-k", "testpack", "-p", "org.mozilla.firefox", "-q", "c"))

	assert.Equal(t, "all-header:\nall-icon:chrome\nall-icon:calculator\n", env.stdout.String())
}

func TestList_Text(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	require.NoError(t, env.run("list", "--icon-pack", "testpack", "--app-package", "org.mozilla.firefox"))

	out := strings.ToLower(env.stdout.String())
	assert.Contains(t, out, "matching icons (1)\nfirefox\n")
	assert.Contains(t, out, "all icons (3)\nfirefox\nchrome\ncalculator\n")

	env.stdout.Reset()
	require.NoError(t, env.run("list", "--icon-pack", "testpack", "--query", "zzz"))
	assert.Empty(t, env.stdout.String())
	assert.Contains(t, env.stderr.String(), `no icons match "zzz"`)
}

func TestList_EmptyPackShowsAllHeader(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(env.packs, "emptypack"), 0o755))

	require.NoError(t, env.run("list", "--icon-pack", "emptypack"))

	assert.Equal(t, "all icons (0)\n", strings.ToLower(env.stdout.String()))
	assert.NotContains(t, env.stderr.String(), "no icons match")
}

func TestList_UnknownPack(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	err := env.run("list", "--icon-pack", "missing")
	exitErr := requireExitCode(t, err, ExitNotFoundError)
	require.ErrorIs(t, exitErr, domain.ErrPackNotFound)
}

func TestPick_MissingParametersIsUsageError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, WithInteractive(func() bool { return true }))

	err := env.run("pick", "--app-package", "org.mozilla.firefox", "--icon-pack", "testpack")
	exitErr := requireExitCode(t, err, ExitUsageError)
	require.ErrorIs(t, exitErr, domain.ErrInvalidSelection)

	err = env.run("--app-label", "Firefox", "--icon-pack", "testpack")
	requireExitCode(t, err, ExitUsageError)
}

func TestPick_RequiresTerminal(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	err := env.run("pick", "-p", "org.mozilla.firefox", "-l", "Firefox", "-k", "testpack")
	exitErr := requireExitCode(t, err, ExitGeneralError)
	require.ErrorIs(t, exitErr, tui.ErrNoTerminal)
}

func TestPick_PromptsForPackAndReportsCommit(t *testing.T) {
	t.Parallel()

	var offered []string

	env := newTestEnv(t,
		WithInteractive(func() bool { return true }),
		WithPrompter(func(packs []iconpack.Location) (string, error) {
			for _, p := range packs {
				offered = append(offered, p.ID)
			}

			return "testpack", nil
		}),
		WithPickerRunner(func(_ context.Context, picker *models.Picker) (grid.Activation, error) {
			require.NotNil(t, picker)

			return grid.Activation{Outcome: grid.OutcomeCommitted, Name: "firefox"}, nil
		}),
	)

	require.NoError(t, env.run("--json", "-p", "org.mozilla.firefox", "-l", "Firefox"))

	assert.Equal(t, []string{"testpack"}, offered)

	result := decode(t, env.stdout)
	assert.Equal(t, true, result["committed"])
	assert.Equal(t, "firefox", result["icon"])
	assert.Equal(t, "testpack", result["icon_pack"])
}

func TestPick_SessionLock(t *testing.T) {
	t.Parallel()

	runs := 0

	env := newTestEnv(t,
		WithInteractive(func() bool { return true }),
		WithPickerRunner(func(context.Context, *models.Picker) (grid.Activation, error) {
			runs++

			return grid.Activation{}, nil
		}),
	)

	held := flock.New(env.lock)
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	err = env.run("pick", "-p", "org.mozilla.firefox", "-l", "Firefox", "-k", "testpack")
	exitErr := requireExitCode(t, err, ExitGeneralError)
	require.ErrorIs(t, exitErr, ErrSessionActive)
	assert.Zero(t, runs)

	// Read-only commands ignore the picker lock
	require.NoError(t, env.run("--plain", "packs"))
	require.NoError(t, env.run("--plain", "list", "-k", "testpack"))
	require.NoError(t, env.run("--plain", "overrides"))

	require.NoError(t, held.Unlock())

	require.NoError(t, env.run("pick", "-p", "org.mozilla.firefox", "-l", "Firefox", "-k", "testpack"))
	assert.Equal(t, 1, runs)
}

func TestPick_PromptCancelled(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t,
		WithInteractive(func() bool { return true }),
		WithPrompter(func([]iconpack.Location) (string, error) {
			return "", ErrInterrupted
		}),
	)

	err := env.run("pick", "-p", "org.mozilla.firefox", "-l", "Firefox")
	requireExitCode(t, err, ExitInterruptError)
}

func TestPick_NoCommit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t,
		WithInteractive(func() bool { return true }),
		WithPickerRunner(func(context.Context, *models.Picker) (grid.Activation, error) {
			return grid.Activation{Outcome: grid.OutcomeUnavailable, Name: "chrome"}, nil
		}),
	)

	require.NoError(t, env.run("--plain", "-p", "org.mozilla.firefox", "-l", "Firefox", "-k", "testpack"))
	assert.Empty(t, env.stdout.String())
}

func TestPacks(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	require.NoError(t, env.run("--json", "packs"))

	result := decode(t, env.stdout)
	packs, ok := result["packs"].([]any)
	require.True(t, ok)
	require.Len(t, packs, 1)

	pack, ok := packs[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "testpack", pack["id"])
	assert.Equal(t, false, pack["archive"])

	env.stdout.Reset()
	require.NoError(t, env.run("--plain", "packs"))
	assert.Equal(t, fmt.Sprintf("testpack:%s\n", filepath.Join(env.packs, "testpack")), env.stdout.String())
}

func TestOverrides_ListAndClear(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	store := overrides.NewStore(env.data, nil)
	require.NoError(t, store.Commit(context.Background(),
		&domain.Image{Name: "firefox", Format: "png", Data: []byte("x")},
		domain.SelectionContext{AppPackage: "org.mozilla.firefox", AppLabel: "Firefox", IconPack: "testpack"}))

	require.NoError(t, env.run("--plain", "overrides"))
	assert.Equal(t, "org.mozilla.firefox:testpack/firefox\n", env.stdout.String())

	require.NoError(t, env.run("overrides", "clear", "org.mozilla.firefox"))
	assert.Contains(t, env.stderr.String(), "removed override for org.mozilla.firefox")

	err := env.run("overrides", "clear", "org.mozilla.firefox")
	requireExitCode(t, err, ExitNotFoundError)

	err = env.run("overrides", "clear")
	requireExitCode(t, err, ExitUsageError)
}

func TestConfigInitAndShow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	require.NoError(t, env.run("config", "init"))
	assert.FileExists(t, env.config)

	err := env.run("config", "init")
	requireExitCode(t, err, ExitConfigError)

	require.NoError(t, env.run("config", "init", "--force"))

	env.stdout.Reset()
	require.NoError(t, env.run("config", "show"))
	assert.Contains(t, env.stdout.String(), "columns = 4")
	assert.Contains(t, env.stdout.String(), env.data)
}

func TestInvalidConfig(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(env.config), 0o755))
	require.NoError(t, os.WriteFile(env.config, []byte("columns = 0\n"), 0o600))

	err := env.run("packs")
	exitErr := requireExitCode(t, err, ExitConfigError)
	require.ErrorIs(t, exitErr, config.ErrInvalidConfig)
}

func TestJSONAndPlainConflict(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	err := env.run("--json", "--plain", "packs")
	requireExitCode(t, err, ExitUsageError)
}

func TestLogFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	logPath := filepath.Join(t.TempDir(), "iconpick.log")

	require.NoError(t, env.run("--verbose", "--log-file", logPath, "list", "-k", "testpack"))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "catalog scanned")
}

func TestToExitError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"selection", &domain.SelectionError{Missing: []string{"app label"}}, ExitUsageError},
		{"config", fmt.Errorf("x: %w", config.ErrInvalidConfig), ExitConfigError},
		{"pack", fmt.Errorf("x: %w", domain.ErrPackNotFound), ExitNotFoundError},
		{"override", fmt.Errorf("x: %w", overrides.ErrNoOverride), ExitNotFoundError},
		{"exhausted", domain.ErrResourceExhausted, ExitSystemError},
		{"interrupted", ErrInterrupted, ExitInterruptError},
		{"cancelled", context.Canceled, ExitInterruptError},
		{"other", errors.New("boom"), ExitGeneralError},
		{"already mapped", domain.NewExitError(42, "custom", nil), 42},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			requireExitCode(t, toExitError(tc.err, false), tc.code)
		})
	}

	assert.NoError(t, toExitError(nil, false))
}

func TestPackOptions(t *testing.T) {
	t.Parallel()

	options := packOptions([]iconpack.Location{
		{ID: "arcticons", Archive: true},
		{ID: "lawnicons"},
	})

	require.Len(t, options, 2)
	assert.Equal(t, "◈ arcticons (archive)", options[0].Key)
	assert.Equal(t, "arcticons", options[0].Value)
	assert.Equal(t, "▸ lawnicons", options[1].Key)
}

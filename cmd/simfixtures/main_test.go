package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUDID = "5C3E2B1A-8F4D-4E6A-9B7C-0D1E2F3A4B5C"

// setupSimulatorHome lays out a fake CoreSimulator home with two app
// containers; the returned container is the newer one.
func setupSimulatorHome(t *testing.T) (home, container string) {
	t.Helper()
	home = t.TempDir()
	apps := filepath.Join(home, "Library", "Developer", "CoreSimulator", "Devices", testUDID,
		"data", "Containers", "Data", "Application")

	older := filepath.Join(apps, "OLDER")
	container = filepath.Join(apps, "NEWER")
	for i, dir := range []string{older, container} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
		ts := time.Now().Add(time.Duration(i-2) * time.Hour)
		require.NoError(t, os.Chtimes(dir, ts, ts))
	}
	return home, container
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSeedCommand(t *testing.T) {
	home, container := setupSimulatorHome(t)
	dir := t.TempDir()

	seed := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(seed, []byte(`{"user":"e2e"}`), 0o644))
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(strings.Join([]string{
		"fixtures:",
		"  - " + seed,
		"  - " + filepath.Join(dir, "missing.json"),
		"  - filePath: " + seed,
		"    destinationDir: config/sub",
	}, "\n")), 0o644))

	out, err := runCLI(t, "seed", "--config", cfgPath, "--home", home, "--device", testUDID, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "container: "+container)
	assert.Contains(t, out, "2 copied, 1 missing")

	for _, p := range []string{
		filepath.Join(container, "Documents", "seed.json"),
		filepath.Join(container, "Documents", "config", "sub", "seed.json"),
	} {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, `{"user":"e2e"}`, string(data))
	}
}

func TestSeedCommand_NoFixtures(t *testing.T) {
	home, container := setupSimulatorHome(t)

	out, err := runCLI(t, "seed", "--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--home", home, "--device", testUDID, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "No fixtures configured")

	_, err = os.Stat(filepath.Join(container, "Documents"))
	assert.True(t, os.IsNotExist(err))
}

func TestFindContainerCommand(t *testing.T) {
	home, container := setupSimulatorHome(t)

	out, err := runCLI(t, "find-container", "--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--home", home, "--device", testUDID)
	require.NoError(t, err)
	assert.Equal(t, container+"\n", out)
}

func TestFindContainerCommand_UnknownDevice(t *testing.T) {
	home, _ := setupSimulatorHome(t)

	_, err := runCLI(t, "find-container", "--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--home", home, "--device", "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no app container found")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := runCLI(t, "find-container", "--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--log-level", "loud", "--device", testUDID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRun_ExitCodeAndErrorOutput(t *testing.T) {
	home, container := setupSimulatorHome(t)
	noConfig := filepath.Join(t.TempDir(), "none.yaml")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "success",
			args:       []string{"find-container", "--config", noConfig, "--home", home, "--device", testUDID, "--no-color"},
			wantCode:   0,
			wantStdout: container + "\n",
		},
		{
			name:       "invalid config",
			args:       []string{"find-container", "--config", noConfig, "--log-level", "loud", "--device", testUDID, "--no-color"},
			wantCode:   1,
			wantStderr: "Error: invalid config: unknown log level: loud",
		},
		{
			name:       "no container",
			args:       []string{"find-container", "--config", noConfig, "--home", home, "--device", "00000000-0000-0000-0000-000000000000", "--no-color"},
			wantCode:   1,
			wantStderr: "Error: no app container found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStdout, stdout.String())
			if tt.wantStderr == "" {
				assert.Empty(t, stderr.String())
			} else {
				assert.True(t, strings.HasPrefix(stderr.String(), tt.wantStderr), stderr.String())
			}
		})
	}
}

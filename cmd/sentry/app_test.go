package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)
	err := app.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), err
}

func TestApp_Version(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sentry version")
}

func TestApp_Help(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	for _, cmd := range []string{"run", "validate", "migrate", "version"} {
		assert.Contains(t, out, cmd)
	}
}

func TestApp_ValidateDefaults(t *testing.T) {
	out, err := execute(t, "validate", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, `scene "warehouse" is valid: 1 agents, 1 obstacles, 2 zones (1 stealth, 1 goal)`)
}

func TestApp_ValidateInvalid(t *testing.T) {
	path := writeScene(t, `
agents:
  - id: lonely
    waypoints: []
`)
	_, err := execute(t, "validate", "-c", path)
	assert.Error(t, err)
}

func TestApp_ValidateBrokenZone(t *testing.T) {
	path := writeScene(t, `
zones:
  - id: pond
    kind: stealth
    shape: cylinder
    radius: 0
`)
	_, err := execute(t, "validate", "-c", path)
	assert.Error(t, err)
}

func TestApp_RunTicksUntilFailure(t *testing.T) {
	path := writeScene(t, `
name: stare
log_level: error
tick_interval: 100ms
stop_on_terminal: true
alert:
  cadence: 1s
  max_level: 2
target:
  spawn: {x: 0, y: 0, z: 5}
  radius: 0.5
  route: []
agents:
  - id: watcher
    spawn: {x: 0, y: 0, z: 0}
    forward: {x: 0, y: 0, z: 1}
    speed: 0.1
    waypoints:
      - {x: 0, y: 0, z: 0}
obstacles: []
zones: []
`)

	out, err := execute(t, "run", "-c", path, "--ticks", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "outcome: FAILURE")
	assert.Contains(t, out, "ALERT: 2/2")
}

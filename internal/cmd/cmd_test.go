package cmd_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/rthr/stationbuild/internal/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testSchema = `
temp:
  type: float
  value: 21.5
  size: sizeof(float)
name:
  type: char*
  value: '"station1"'
  size: 9
`

func writeSchema(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "default.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSchema), 0o644))
	return path
}

func TestSettingsCommand(t *testing.T) {
	dir := t.TempDir()
	s := cmd.Settings{
		Schema: writeSchema(t, dir),
		Output: filepath.Join(dir, "DefaultSettings.cpp"),
	}

	require.NoError(t, s.Run(testLogger()))

	data, err := os.ReadFile(s.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "static const float skTemp = 21.5;")
	assert.Contains(t, string(data), "(uint8_t*)skName")
}

func TestSettingsCommandBadSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "default.yaml")
	require.NoError(t, os.WriteFile(schemaPath, []byte("temp:\n  value: 21.5\n"), 0o644))

	s := cmd.Settings{Schema: schemaPath, Output: filepath.Join(dir, "out.cpp")}
	err := s.Run(testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "type" field`)

	// No partial module is left behind.
	_, statErr := os.Stat(s.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestVersionCommand(t *testing.T) {
	dir := t.TempDir()
	v := cmd.Version{
		CounterFile: filepath.Join(dir, "versioning"),
		Output:      filepath.Join(dir, "version.h"),
		Major:       0,
		Minor:       1,
	}

	require.NoError(t, v.Run(testLogger()))

	counter, err := os.ReadFile(v.CounterFile)
	require.NoError(t, err)
	assert.Equal(t, "1", string(counter))

	header, err := os.ReadFile(v.Output)
	require.NoError(t, err)
	assert.Contains(t, string(header), `#define BUILD_NUMBER "1"`)
}

func TestBuildCommandRunsBothPipelines(t *testing.T) {
	dir := t.TempDir()
	b := cmd.Build{
		Pass: "build",
		Settings: cmd.Settings{
			Schema: writeSchema(t, dir),
			Output: filepath.Join(dir, "DefaultSettings.cpp"),
		},
		Version: cmd.Version{
			CounterFile: filepath.Join(dir, "versioning"),
			Output:      filepath.Join(dir, "version.h"),
			Major:       0,
			Minor:       1,
		},
	}

	require.NoError(t, b.Run(testLogger()))

	assert.FileExists(t, b.Settings.Output)
	assert.FileExists(t, b.Version.Output)
	assert.FileExists(t, b.Version.CounterFile)
}

func TestBuildCommandSkipsNonBuildPasses(t *testing.T) {
	for _, pass := range []string{"clean", "dump"} {
		t.Run(pass, func(t *testing.T) {
			dir := t.TempDir()
			b := cmd.Build{
				Pass: pass,
				Settings: cmd.Settings{
					// Would fail if the pipeline actually ran.
					Schema: filepath.Join(dir, "missing.yaml"),
					Output: filepath.Join(dir, "DefaultSettings.cpp"),
				},
				Version: cmd.Version{
					CounterFile: filepath.Join(dir, "versioning"),
					Output:      filepath.Join(dir, "version.h"),
				},
			}

			require.NoError(t, b.Run(testLogger()))

			_, err := os.Stat(b.Settings.Output)
			assert.True(t, os.IsNotExist(err))
			_, err = os.Stat(b.Version.CounterFile)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestConfigInitFormats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, data []byte)
	}{
		{
			format: "json",
			check: func(t *testing.T, data []byte) {
				var m map[string]any
				require.NoError(t, json.Unmarshal(data, &m))
				assert.Contains(t, m, "schema")
				assert.Contains(t, m, "output")
			},
		},
		{
			format: "yaml",
			check: func(t *testing.T, data []byte) {
				var m map[string]any
				require.NoError(t, yaml.Unmarshal(data, &m))
				assert.Contains(t, m, "schema")
			},
		},
		{
			format: "toml",
			check: func(t *testing.T, data []byte) {
				assert.Contains(t, string(data), "schema")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			dir := t.TempDir()
			c := cmd.ConfigInit{
				Command: "settings",
				Format:  tc.format,
				Output:  filepath.Join(dir, "settings."+tc.format),
			}
			require.NoError(t, c.Run())

			data, err := os.ReadFile(c.Output)
			require.NoError(t, err)
			tc.check(t, data)
		})
	}
}

func TestConfigInitBuildNestsEmbeddedCommands(t *testing.T) {
	dir := t.TempDir()
	c := cmd.ConfigInit{
		Command: "build",
		Format:  "json",
		Output:  filepath.Join(dir, "build.json"),
	}
	require.NoError(t, c.Run())

	data, err := os.ReadFile(c.Output)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Contains(t, m, "pass")
	assert.Contains(t, m, "settings")
	assert.Contains(t, m, "version")
}

func TestConfigInitRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(dest, []byte("{}"), 0o644))

	c := cmd.ConfigInit{Command: "settings", Format: "json", Output: dest}
	err := c.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination exists")

	c.Force = true
	require.NoError(t, c.Run())
}

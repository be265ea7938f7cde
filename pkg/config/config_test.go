package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
}

func TestLoadTOML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tasks.toml"), `
package = "py_bingads"
path = ["/opt/tools/bin"]

[docs]
opener = "firefox"

[log]
level = "debug"
`)

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "py_bingads", cfg.Package)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, []string{"/opt/tools/bin"}, cfg.Path)
	assert.Equal(t, "firefox", cfg.Docs.Opener)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())

	// defaults
	assert.Equal(t, "development.txt", cfg.Requirements)
	assert.Equal(t, "pylintrc", cfg.PylintRC)
	assert.Equal(t, "test.ini", cfg.TestConfig)
	assert.Equal(t, "docs", cfg.Docs.Dir)
	assert.Equal(t, "CIRCLE_TEST_REPORTS", cfg.CI.ReportsEnv)
	assert.Equal(t, filepath.Join(root, "tasks.star"), cfg.ScriptPath())
}

func TestLoadYAML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tasks.yaml"), `
package: py_bingads
requirements: requirements/dev.txt
ci:
  reports_env: CI_REPORTS
`)

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "py_bingads", cfg.Package)
	assert.Equal(t, "requirements/dev.txt", cfg.Requirements)
	assert.Equal(t, "CI_REPORTS", cfg.CI.ReportsEnv)
}

func TestLoadRelativeRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tasks.toml"), "package = \"demo\"\nroot = \"python\"\n")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "python"), cfg.Root)
}

func TestLoadExtraFileOverrides(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "tasks.toml"), "package = \"base\"\nrequirements = \"base.txt\"\n")
	extra := filepath.Join(t.TempDir(), "ci.toml")
	writeFile(t, extra, "package = \"fromextra\"\npylintrc = \"ci.rc\"\n")

	cfg, err := Load(root, extra)
	require.NoError(t, err)

	assert.Equal(t, "fromextra", cfg.Package)
	assert.Equal(t, "ci.rc", cfg.PylintRC)
	assert.Equal(t, "base.txt", cfg.Requirements)
}

func TestLoadMissingExtraFile(t *testing.T) {
	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "info"
	assert.Error(t, cfg.Validate())

	cfg.Package = "py_bingads"
	assert.NoError(t, cfg.Validate())

	cfg.Log.Level = "loud"
	assert.Error(t, cfg.Validate())
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "setup.py"), "")
	nested := filepath.Join(root, "py_bingads", "tests")
	require.NoError(t, os.MkdirAll(nested, 0755))

	found, err := FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "troskovi-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "troskovi")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/troskovi")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runTroskovi(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runTroskovi(t, "init", dir)
	require.NoError(t, err)

	for _, d := range []string{"logs", "import", filepath.Join("import", "processed"), "data"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runTroskovi(t, "init", dir, "--backend", "sqlite")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "troskovi.yaml"))
	require.NoError(t, err)
	contents := string(data)
	assert.Contains(t, contents, "backend: sqlite")
	assert.Contains(t, contents, "path: troskovi.db")

	_, err = os.Stat(filepath.Join(dir, "troskovi.db"))
	require.NoError(t, err, "sqlite database should be created")
}

func TestInit_SeedsDefaults(t *testing.T) {
	dir := t.TempDir()
	_, err := runTroskovi(t, "init", dir)
	require.NoError(t, err)

	cats, err := os.ReadFile(filepath.Join(dir, "data", "troskovi_categories.json"))
	require.NoError(t, err)
	assert.Contains(t, string(cats), `"Radnje"`)

	settings, err := os.ReadFile(filepath.Join(dir, "data", "troskovi_settings.json"))
	require.NoError(t, err)
	assert.Contains(t, string(settings), "kupovina eur")
}

func TestInit_RefusesExisting(t *testing.T) {
	dir := t.TempDir()
	_, err := runTroskovi(t, "init", dir)
	require.NoError(t, err)

	out, err := runTroskovi(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, out, "already exists")
}

func TestInit_RejectsUnknownBackend(t *testing.T) {
	out, err := runTroskovi(t, "init", t.TempDir(), "--backend", "sheets")
	require.Error(t, err)
	assert.Contains(t, out, "invalid storage backend")
}

func TestInit_GitRepo(t *testing.T) {
	dir := t.TempDir()
	_, err := runTroskovi(t, "init", dir, "--git")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init: default categories and rules|Troskovi <troskovi@localhost>")
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runTroskovi(t, "init", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	for _, pattern := range []string{".env", "*.db"} {
		assert.Contains(t, string(data), pattern, ".gitignore should contain %s", pattern)
	}
}

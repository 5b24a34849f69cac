package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/kampfrichter/internal/apperr"
)

type cliEnv struct {
	dir    string
	config string
	prefs  string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	env := cliEnv{
		dir:    dir,
		config: filepath.Join(dir, "config.toml"),
		prefs:  filepath.Join(dir, "prefs.toml"),
	}
	content := "data_dir = " + quote(filepath.Join(dir, "data")) + "\n" +
		"log_level = \"debug\"\n" +
		"update_on_start = false\n"
	require.NoError(t, os.WriteFile(env.config, []byte(content), 0o644))
	return env
}

func quote(s string) string {
	return "'" + s + "'"
}

func (e cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := e.runStreams(t, args...)
	return stdout, err
}

func (e cliEnv) runStreams(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.config, "--prefs", e.prefs}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (e cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "kampfrichter %s", strings.Join(args, " "))
	return out
}

func TestCheck(t *testing.T) {
	assert.NoError(t, check("save", apperr.NoError))

	err := check("save", apperr.RustWriteFileError)
	var ce *codeError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, apperr.RustWriteFileError, ce.code)
	assert.Equal(t, "save: RustWriteFileError", err.Error())
}

func TestCommandTree(t *testing.T) {
	root := NewRootCmd()
	want := []string{"new", "show", "table", "judge", "replacement", "docx", "pdf", "chrome", "update", "logs", "recent", "theme", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	for _, name := range []string{"logs", "recent", "theme", "version"} {
		cmd, _, _ := root.Find([]string{name})
		assert.Equal(t, "true", cmd.Annotations[skipSession], name)
	}
}

func TestEditAndShowCompetition(t *testing.T) {
	env := newCLIEnv(t)
	save := filepath.Join(env.dir, "dm.json")

	out := env.mustRun(t, "new", "-o", save,
		"--name", "99. DM", "--date", "2024-05-11", "--place", "Halle",
		"--responsible", "M. Muster", "--meeting", "09:30")
	assert.Equal(t, save+"\n", out)

	first := strings.TrimSpace(env.mustRun(t, "table", "add", save, "--kind", "Gerade", "--name", "Tisch 1"))
	second := strings.TrimSpace(env.mustRun(t, "table", "add", save, "--kind", "Spirale", "--name", "Tisch 2"))
	final := strings.TrimSpace(env.mustRun(t, "table", "add", save, "--kind", "Gerade", "--name", "Finale", "--final"))
	require.NotEmpty(t, first)
	require.NotEqual(t, first, second)

	env.mustRun(t, "judge", "set", save, "--table", first, "--role", "OK", "--name", "Anna")
	env.mustRun(t, "judge", "set", save, "--table", second, "--role", "OK", "--name", "Anna")
	env.mustRun(t, "judge", "set", save, "--table", final, "--role", "OK", "--name", "Anna")
	env.mustRun(t, "replacement", "add", save, "Bernd")

	var doc struct {
		Name         string   `json:"wk_name"`
		Replacements []string `json:"wk_replacement_judges"`
		Tables       map[string]struct {
			Final  bool `json:"table_is_finale"`
			Judges map[string]struct {
				Name      string `json:"name"`
				Duplicate bool   `json:"doubleFound"`
			} `json:"judges"`
		} `json:"wk_judgingtables"`
	}
	require.NoError(t, json.Unmarshal([]byte(env.mustRun(t, "show", save, "--json")), &doc))
	assert.Equal(t, "99. DM", doc.Name)
	assert.Equal(t, []string{"Bernd"}, doc.Replacements)
	require.Len(t, doc.Tables, 3)
	assert.True(t, doc.Tables[final].Final)
	assert.False(t, doc.Tables[second].Final)
	for id, table := range doc.Tables {
		require.Len(t, table.Judges, 1, id)
		for _, judge := range table.Judges {
			assert.Equal(t, "Anna", judge.Name)
			// Finals are checked apart from the preliminary tables.
			assert.Equal(t, !table.Final, judge.Duplicate, "table %s", id)
		}
	}

	summary := env.mustRun(t, "show", save)
	assert.Contains(t, summary, "99. DM (gespeichert)")
	assert.Contains(t, summary, "Tisch 1")

	recent := env.mustRun(t, "recent")
	assert.Equal(t, save, strings.TrimSpace(recent))
}

func TestProgressPrintsSaveStages(t *testing.T) {
	env := newCLIEnv(t)
	save := filepath.Join(env.dir, "dm.json")

	_, stderr, err := env.runStreams(t, "--progress", "new", "-o", save, "--name", "DM")
	require.NoError(t, err)
	var stages []string
	for _, line := range strings.Split(stderr, "\n") {
		if fields := strings.Fields(line); len(fields) == 2 && fields[0] == "save" {
			stages = append(stages, fields[1])
		}
	}
	assert.Equal(t, []string{"syncing", "serializing", "writing", "done"}, stages)

	_, stderr, err = env.runStreams(t, "new", "-o", save, "--name", "DM")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "syncing")
}

func TestSetJudgeUnknownTable(t *testing.T) {
	env := newCLIEnv(t)
	save := filepath.Join(env.dir, "dm.json")
	env.mustRun(t, "new", "-o", save, "--name", "DM")

	_, err := env.run(t, "judge", "set", save, "--table", "missing", "--role", "OK", "--name", "Anna")
	var ce *codeError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, apperr.DeserializeArgumentNullError, ce.code)
}

func TestShowMissingFile(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "show", filepath.Join(env.dir, "nope.json"))
	var ce *codeError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "import", ce.op)
}

func TestLogsPrintsNewestSession(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "logs")
	require.Error(t, err)

	env.mustRun(t, "new", "-o", filepath.Join(env.dir, "dm.json"), "--name", "DM")
	path := strings.TrimSpace(env.mustRun(t, "logs", "--path"))
	assert.Equal(t, filepath.Join(env.dir, "data", "Logs"), filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "LOG__"))
}

func TestThemeCommand(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun(t, "theme")
	assert.True(t, strings.HasPrefix(out, "Nightfox"))

	env.mustRun(t, "theme", "Kanagawa")
	out = env.mustRun(t, "theme")
	assert.True(t, strings.HasPrefix(out, "Kanagawa"))

	_, err := env.run(t, "theme", "Solarized")
	assert.Error(t, err)
}

func TestVersionJSON(t *testing.T) {
	env := newCLIEnv(t)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(env.mustRun(t, "version", "--format", "json")), &info))
	assert.Equal(t, "dev", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/objectstore/errors"
)

const testConfig = `
backend: sqlite
sqlite:
  path: %DB%
models:
  - name: Person
    collection: true
    fields:
      - {name: email, required: true}
      - {name: age, type: int}
  - name: Tag
    fields:
      - {name: label}
`

// setupCLI writes a config over a fresh SQLite file and returns a runner for
// objectctl invocations against it.
func setupCLI(t *testing.T) func(args ...string) (string, error) {
	t.Helper()
	pterm.DisableStyling()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "objects.yaml")
	cfg := strings.ReplaceAll(testConfig, "%DB%", filepath.Join(dir, "objects.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	return func(args ...string) (string, error) {
		var out bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(append([]string{"--config", cfgPath}, args...))
		err := root.ExecuteContext(context.Background())
		return out.String(), err
	}
}

func TestPutGetDelete(t *testing.T) {
	run := setupCLI(t)

	out, err := run("put", "person", "ada", "email=ada@example.com", "age=36")
	require.NoError(t, err)
	assert.Equal(t, "created /person:ada\n", out)

	out, err = run("put", "person", "ada", "age=37")
	require.NoError(t, err)
	assert.Equal(t, "updated /person:ada\n", out)

	out, err = run("get", "person", "ada", "--json")
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "/person:ada", rec["key"])
	assert.Equal(t, "ada@example.com", rec["email"])
	assert.Equal(t, float64(37), rec["age"])

	out, err = run("get", "Person", "ada")
	require.NoError(t, err)
	assert.Contains(t, out, "email: ada@example.com")

	out, err = run("delete", "person", "ada")
	require.NoError(t, err)
	assert.Equal(t, "deleted /person:ada\n", out)

	_, err = run("get", "person", "ada")
	assert.True(t, errors.IsNotFound(err))
}

func TestPutValidates(t *testing.T) {
	run := setupCLI(t)

	_, err := run("put", "person", "ada", "email=ada@example.com", "age=old")
	assert.True(t, errors.IsTypeCoercion(err))

	_, err = run("put", "person", "bob", "email=null")
	assert.True(t, errors.IsRequiredField(err))

	_, err = run("put", "person", "bob", "nickname=b")
	assert.True(t, errors.IsValidationError(err))

	_, err = run("put", "person", "bob", "email")
	assert.Error(t, err)

	_, err = run("put", "robot", "r2")
	assert.Error(t, err)

	// nothing was stored by the failed puts
	_, err = run("get", "person", "ada")
	assert.True(t, errors.IsNotFound(err))
}

func TestQuery(t *testing.T) {
	run := setupCLI(t)

	for _, args := range [][]string{
		{"put", "person", "ada", "email=ada@example.com", "age=36"},
		{"put", "person", "bob", "email=bob@example.com", "age=17"},
		{"put", "person", "cy", "email=cy@example.com", "age=52"},
	} {
		_, err := run(args...)
		require.NoError(t, err)
	}

	out, err := run("query", "person", "--filter", "age>=18", "--order", "-age", "--json")
	require.NoError(t, err)
	var recs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "/person:cy", recs[0]["key"])
	assert.Equal(t, "/person:ada", recs[1]["key"])

	out, err = run("query", "person", "--order", "age", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "/person:bob")
	assert.NotContains(t, out, "/person:ada")

	_, err = run("query", "person", "--filter", "age~18")
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	run := setupCLI(t)

	for _, name := range []string{"a", "b"} {
		_, err := run("put", "tag", name, "label="+name)
		require.NoError(t, err)
	}
	_, err := run("put", "person", "ada", "email=ada@example.com")
	require.NoError(t, err)

	out, err := run("clear", "tag")
	require.NoError(t, err)
	assert.Equal(t, "removed 2 Tag instances\n", out)

	_, err = run("get", "person", "ada")
	assert.NoError(t, err)
}

func TestCollection(t *testing.T) {
	run := setupCLI(t)

	for _, name := range []string{"zed", "ada"} {
		_, err := run("put", "person", name, "email="+name+"@example.com")
		require.NoError(t, err)
	}

	out, err := run("collection", "ls", "person")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "/person:zed"), strings.Index(out, "/person:ada"))

	out, err = run("collection", "rm", "person", "zed")
	require.NoError(t, err)
	assert.Equal(t, "removed /person:zed from /person\n", out)

	out, err = run("collection", "ls", "person")
	require.NoError(t, err)
	assert.NotContains(t, out, "/person:zed")
	assert.Contains(t, out, "/person:ada")

	_, err = run("collection", "ls", "tag")
	assert.True(t, errors.IsValidationError(err))
}

func TestTypesAndVersion(t *testing.T) {
	run := setupCLI(t)

	out, err := run("types")
	require.NoError(t, err)
	assert.Contains(t, out, "Person")
	assert.Contains(t, out, "email,age")

	out, err = run("version", "--json")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "0.1.0", info["version"])
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"36", 36},
		{"2.5", 2.5},
		{"true", true},
		{"null", nil},
		{"", nil},
		{"ada@example.com", "ada@example.com"},
		{`"007"`, "007"},
		{"a: b", "a: b"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseValue(tt.in))
		})
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runLoom executes the CLI with the given arguments and captures output.
func runLoom(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// compileEnvelope mirrors the JSON response shape for decoding in tests.
type compileEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		Filename string `json:"filename"`
		Output   string `json:"output"`
		BuildID  string `json:"build_id"`
		Cached   bool   `json:"cached"`
	} `json:"data"`
	Error *CLIError `json:"error"`
}

func TestCompileCommand_TextOutput(t *testing.T) {
	tpl := writeFile(t, "app.html", `<p>{{ msg }}</p>`)

	stdout, _, err := runLoom(t, "compile", tpl, "--prefix")

	require.NoError(t, err)
	assert.Contains(t, stdout, "return function render(_ctx, _cache) {")
	assert.Contains(t, stdout, "_toDisplayString(_ctx.msg)")
}

func TestCompileCommand_JSONOutput(t *testing.T) {
	tpl := writeFile(t, "app.html", `<p>{{ msg }}</p>`)

	stdout, _, err := runLoom(t, "compile", tpl, "--prefix", "--format", "json")

	require.NoError(t, err)
	var resp compileEnvelope
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, tpl, resp.Data.Filename)
	assert.Contains(t, resp.Data.Output, "_toDisplayString(_ctx.msg)")
	assert.False(t, resp.Data.Cached)
}

func TestCompileCommand_OutputFile(t *testing.T) {
	tpl := writeFile(t, "app.html", `<p>hi</p>`)
	out := filepath.Join(t.TempDir(), "render.js")

	stdout, _, err := runLoom(t, "compile", tpl, "-o", out)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote render function to "+out)
	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(written), "return function render")
}

func TestCompileCommand_MissingTemplate(t *testing.T) {
	stdout, _, err := runLoom(t, "compile", filepath.Join(t.TempDir(), "nope.html"))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E_IO]")
}

func TestCompileCommand_ParseErrorExitCode(t *testing.T) {
	tpl := writeFile(t, "bad.html", "<div>\n  <p>hi\n</div>")

	stdout, _, err := runLoom(t, "compile", tpl)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E_PARSE]")
	assert.Contains(t, stdout, "bad.html:3:")
}

func TestCompileCommand_InvalidFormat(t *testing.T) {
	tpl := writeFile(t, "app.html", `<p>hi</p>`)

	_, _, err := runLoom(t, "compile", tpl, "--format", "xml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestCompileCommand_CacheRoundTrip(t *testing.T) {
	tpl := writeFile(t, "app.html", `<p>{{ msg }}</p>`)
	db := filepath.Join(t.TempDir(), "cache.db")

	first, _, err := runLoom(t, "compile", tpl, "--prefix", "--cache", db, "--format", "json")
	require.NoError(t, err)
	var cold compileEnvelope
	require.NoError(t, json.Unmarshal([]byte(first), &cold))
	assert.False(t, cold.Data.Cached)
	assert.NotEmpty(t, cold.Data.BuildID)

	second, _, err := runLoom(t, "compile", tpl, "--prefix", "--cache", db, "--format", "json")
	require.NoError(t, err)
	var warm compileEnvelope
	require.NoError(t, json.Unmarshal([]byte(second), &warm))
	assert.True(t, warm.Data.Cached)
	assert.Equal(t, cold.Data.Output, warm.Data.Output)
}

func TestCompileCommand_CacheKeyedByOptions(t *testing.T) {
	tpl := writeFile(t, "app.html", `<p>{{ msg }}</p>`)
	db := filepath.Join(t.TempDir(), "cache.db")

	_, _, err := runLoom(t, "compile", tpl, "--cache", db, "--format", "json")
	require.NoError(t, err)

	// different options must not hit the entry cached above
	out, _, err := runLoom(t, "compile", tpl, "--prefix", "--cache", db, "--format", "json")
	require.NoError(t, err)
	var resp compileEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Data.Cached)
}

func TestCompileCommand_BindingsManifest(t *testing.T) {
	tpl := writeFile(t, "app.html", `<p>{{ count }}</p>`)
	manifest := writeFile(t, "bindings.cue", "bindings: {\n\tcount: \"setup-ref\"\n}\n")

	stdout, _, err := runLoom(t, "compile", tpl, "--inline", "--bindings", manifest)

	require.NoError(t, err)
	assert.Contains(t, stdout, "count.value")
}

func TestCompileCommand_ConfigFile(t *testing.T) {
	tpl := writeFile(t, "app.html", `<p>{{ msg }}</p>`)
	cfg := writeFile(t, "loom.yaml", "prefixIdentifiers: true\nruntimeGlobal: MyRuntime\n")

	stdout, _, err := runLoom(t, "compile", tpl, "--config", cfg)

	require.NoError(t, err)
	assert.Contains(t, stdout, "_ctx.msg")
	assert.Contains(t, stdout, "} = MyRuntime")
}

func TestCompileCommand_FlagsWinOverConfig(t *testing.T) {
	tpl := writeFile(t, "app.html", `<p>{{ msg }}</p>`)
	cfg := writeFile(t, "loom.yaml", "runtimeGlobal: FromConfig\n")

	stdout, _, err := runLoom(t, "compile", tpl, "--config", cfg, "--runtime-global", "FromFlag")

	require.NoError(t, err)
	assert.Contains(t, stdout, "} = FromFlag")
}

func TestCompileCommand_VerboseGoesToStderr(t *testing.T) {
	tpl := writeFile(t, "app.html", `<p>{{ msg }}</p>`)

	stdout, stderr, err := runLoom(t, "compile", tpl, "--prefix", "--format", "json", "--verbose")

	require.NoError(t, err)
	assert.Contains(t, stderr, "Compiling "+tpl)
	var resp compileEnvelope
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), "diagnostics must not corrupt JSON")
}

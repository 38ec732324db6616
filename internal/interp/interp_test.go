package interp_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/embind/internal/interp"
	"github.com/sunholo/embind/internal/rtscript"
)

func newInterp(t *testing.T) *interp.Interp {
	t.Helper()
	rt := rtscript.New()
	in, err := interp.New(rt, interp.DefaultConfig("embind-test", nil))
	require.NoError(t, err)
	t.Cleanup(in.Close)
	return in
}

func TestNew_RejectsSecondLiveInterpreter(t *testing.T) {
	in := newInterp(t)
	_ = in

	rt2 := rtscript.New()
	_, err := interp.New(rt2, interp.DefaultConfig("second", nil))
	require.Error(t, err)
}

func TestEval_EvaluatesExpression(t *testing.T) {
	in := newInterp(t)
	res, err := in.Eval("1 + 2")
	require.NoError(t, err)
	assert.False(t, res.IsZero())
}

func TestExec_ReturnsFalseAndPrintsOnFailure(t *testing.T) {
	in := newInterp(t)
	ok := in.Exec("this is not valid syntax @@@")
	assert.False(t, ok)
}

func TestExec_ReturnsTrueOnSuccess(t *testing.T) {
	in := newInterp(t)
	ok := in.Exec("x = 1")
	assert.True(t, ok)
}

func TestExecFile_RaisesOnMissingFile(t *testing.T) {
	in := newInterp(t)
	_, err := in.ExecFile("nope.xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to open file 'nope.xyz'.")
}

func TestExecFile_ExecutesContents(t *testing.T) {
	in := newInterp(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.es")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	ok, err := in.ExecFile(path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDedent_StripsLeadingNewlineAndCommonIndent(t *testing.T) {
	in := newInterp(t)
	ok := in.Exec("\n    x = 1\n    y = 2\n")
	assert.True(t, ok)
}

func TestAppendPath_GrowsSearchPath(t *testing.T) {
	in := newInterp(t)
	in.AppendPath("/extra/path")
}

func TestLoadConfig_ParsesYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "embind.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""+
		"home: /opt/embind\n"+
		"prog_name: myhost\n"+
		"parse_argv: true\n"+
		"search_path:\n  - /opt/embind/modules\n  - /usr/local/share/embind\n"+
		"coverage: true\n"), 0o644))

	cfg, err := interp.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/embind", cfg.Home)
	assert.Equal(t, "myhost", cfg.ProgName)
	assert.True(t, cfg.ParseArgv)
	assert.True(t, cfg.Coverage)
	assert.Equal(t, []string{"/opt/embind/modules", "/usr/local/share/embind"}, cfg.SearchPath)
}

func TestLoadConfig_MissingFileErrors(t *testing.T) {
	_, err := interp.LoadConfig("/no/such/embind.yaml")
	require.Error(t, err)
}

func TestGlobals_ReturnsCapturedNamespace(t *testing.T) {
	in := newInterp(t)
	g := in.Globals()
	assert.False(t, g.IsZero())
}

func TestReleaseAcquireScope_RunWithoutDeadlock(t *testing.T) {
	in := newInterp(t)
	ran := false

	// ReleaseScope assumes the calling thread already holds the GIL, so
	// exercise it nested inside an AcquireScope, mirroring a trampoline
	// that wants to release the GIL around blocking host work.
	in.AcquireScope(func() {
		in.ReleaseScope(func() { ran = true })
	})
	assert.True(t, ran)
}

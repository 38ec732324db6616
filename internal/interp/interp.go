// Package interp implements the binding core's interpreter controller —
// configuration, lifecycle, append_path, globals, eval, exec, and
// exec_file — plus GIL-shaped scoped acquire/release helpers.
//
// Grounded on the teacher's internal/module.Resolver (home/search-path
// resolution with platform normalization) for Config/AppendPath, and on
// the module-wide sync.RWMutex idiom used by internal/module/loader.go
// and internal/link/resolver.go for the GIL.
package interp

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/errs"
)

// Config is the opaque runtime-config record: home, program name, argv,
// and whether argv should be parsed per the runtime's own command-line
// conventions.
type Config struct {
	Home       string   `yaml:"home"`
	ProgName   string   `yaml:"prog_name"`
	Argv       []string `yaml:"-"`
	ParseArgv  bool     `yaml:"parse_argv"`
	SearchPath []string `yaml:"search_path"`
	Coverage   bool     `yaml:"coverage"`
}

// LoadConfig reads an optional YAML-encoded config file — home dir,
// program name, argv-parsing flag, module search path, coverage hook
// toggle — the way the teacher's eval_harness.LoadSpec decodes a YAML
// task manifest. Argv is never read from the file; it always comes
// from the process's own command line.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns a Config seeded from the process environment,
// the way the teacher's module.Resolver seeds its project root and
// stdlib path from the environment rather than requiring the caller to
// supply them explicitly.
func DefaultConfig(progName string, argv []string) Config {
	home, _ := os.UserHomeDir()
	return Config{Home: home, ProgName: progName, Argv: argv}
}

var liveInterpreter int32

// Interp is the interpreter controller. Only one may be live per
// process, enforced by New/Close via liveInterpreter.
type Interp struct {
	rt      abi.Runtime
	cfg     Config
	globals abi.Ref

	gil sync.Mutex
}

// New initializes an interpreter against rt, capturing the main
// module's global namespace. It returns an error if an Interp is
// already live in this process.
func New(rt abi.Runtime, cfg Config) (*Interp, error) {
	if !atomic.CompareAndSwapInt32(&liveInterpreter, 0, 1) {
		return nil, fmt.Errorf("RuntimeError: an interpreter is already live in this process")
	}
	in := &Interp{rt: rt, cfg: cfg, globals: rt.Globals()}
	for _, p := range cfg.SearchPath {
		in.AppendPath(p)
	}
	return in, nil
}

// Close finalizes the interpreter, freeing the process-wide slot for a
// future New call.
func (in *Interp) Close() {
	atomic.StoreInt32(&liveInterpreter, 0)
}

// AppendPath appends p to the interpreter's configured search path
// (Config.SearchPath). The runtime's Import does not consult this list;
// it resolves only modules registered with RegisterModule.
func (in *Interp) AppendPath(p string) {
	in.cfg.SearchPath = append(in.cfg.SearchPath, p)
}

// Globals borrows the captured global namespace.
func (in *Interp) Globals() abi.Ref { return in.globals }

// dedent strips leading blank lines (typically the single newline after
// an opening raw-string quote), then the longest common leading
// whitespace run shared by every non-blank line, so multi-line host raw
// strings compose naturally. Idempotent: dedent(dedent(s)) == dedent(s),
// and a string with no leading blank line and no common indentation
// dedents to itself.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 1 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	prefix := ""
	havePrefix := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !havePrefix {
			prefix, havePrefix = indent, true
			continue
		}
		prefix = commonPrefix(prefix, indent)
	}
	if !havePrefix || prefix == "" {
		return strings.Join(lines, "\n")
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// Eval compiles and evaluates expr in expression mode, dedenting first.
func (in *Interp) Eval(expr string) (abi.Ref, error) {
	in.gil.Lock()
	defer in.gil.Unlock()
	return in.rt.Eval(in.globals, dedent(expr))
}

// Exec compiles and executes stmt in statement mode, dedenting first.
// On failure it prints the formatted error to stderr and returns false;
// on success it returns true.
func (in *Interp) Exec(stmt string) bool {
	in.gil.Lock()
	defer in.gil.Unlock()
	if err := in.rt.Exec(in.globals, dedent(stmt)); err != nil {
		fmt.Fprintln(os.Stderr, formatErr(err))
		return false
	}
	return true
}

// ExecFile opens path (raising a host-level error if it cannot be
// opened) and executes its contents as statements. Failure semantics
// mirror Exec.
func (in *Interp) ExecFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, errs.RaiseSystemError(in.rt, "Failed to open file '%s'.", path)
	}
	return in.Exec(string(data)), nil
}

func formatErr(err error) string {
	return err.Error()
}

// ReleaseScope releases the GIL on entry and re-acquires it on exit, for
// a GIL-holding thread about to do CPU work with no ABI calls.
func (in *Interp) ReleaseScope(work func()) {
	in.gil.Unlock()
	defer in.gil.Lock()
	work()
}

// AcquireScope acquires the GIL on entry and releases it on exit, for a
// non-holding thread about to touch a Handle or façade.
func (in *Interp) AcquireScope(work func()) {
	in.gil.Lock()
	defer in.gil.Unlock()
	work()
}

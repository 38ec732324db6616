package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/interp"
)

// runREPL is the interactive read-eval-print loop, grounded on
// internal/repl/repl.go's liner-backed loop: persistent history file,
// up/down-arrow navigation, and a ":"-prefixed command set.
func runREPL(in *interp.Interp, rt abi.Runtime) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".embind_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(l string) (c []string) {
		if strings.HasPrefix(l, ":") {
			for _, cmd := range []string{":help", ":quit"} {
				if strings.HasPrefix(cmd, l) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	fmt.Printf("%s %s\n", bold("embind"), dimmed("interactive shell"))
	fmt.Println(dimmed("Type :help for help, :quit to exit"))
	fmt.Println()

	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	for {
		input, err := line.Prompt("embind> ")
		if err == io.EOF {
			fmt.Println(green("\nGoodbye!"))
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if handled := handleCommand(input); handled {
				if input == ":quit" {
					return
				}
				continue
			}
		}

		replEvalOrExec(in, rt, input)
	}
}

func handleCommand(cmd string) bool {
	switch cmd {
	case ":help":
		fmt.Println("Commands:")
		fmt.Println("  :help   show this message")
		fmt.Println("  :quit   exit the REPL")
		return true
	case ":quit":
		return true
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), cmd)
		return true
	}
}

// replEvalOrExec tries input as an expression first — the common REPL
// case — and falls back to statement execution whenever Eval returns an
// error (e.g. an assignment or import that does not parse as an
// expression, but also an expression that fails while evaluating).
func replEvalOrExec(in *interp.Interp, rt abi.Runtime, input string) {
	if result, err := in.Eval(input); err == nil {
		if rt.IsNone(result) {
			return
		}
		repr, err := rt.Repr(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			return
		}
		fmt.Println(repr)
		return
	}
	in.Exec(input)
}

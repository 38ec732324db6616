// Command embind is the CLI surface of the binding core's interpreter
// controller (C10): it offers eval/exec/exec-file subcommands and an
// interactive REPL over the embedded rtscript runtime.
//
// Grounded on cmd/ailang/main.go's flag-based subcommand dispatch and
// fatih/color palette.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/interp"
	"github.com/sunholo/embind/internal/rtscript"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dimmed = color.New(color.Faint).SprintFunc()
)

func main() {
	var (
		helpFlag    = flag.Bool("help", false, "Show help")
		versionFlag = flag.Bool("version", false, "Print version information")
		homeFlag    = flag.String("home", "", "Interpreter home directory")
		pathFlag    = flag.String("path", "", "Extra module search path entry")
		configFlag  = flag.String("config", "", "Path to a YAML interpreter config file")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("embind %s\n", bold("dev"))
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	cfg := interp.DefaultConfig("embind", os.Args[1:])
	if *configFlag != "" {
		fileCfg, err := interp.LoadConfig(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			os.Exit(1)
		}
		fileCfg.Argv = cfg.Argv
		cfg = fileCfg
	}
	if *homeFlag != "" {
		cfg.Home = *homeFlag
	}
	if *pathFlag != "" {
		cfg.SearchPath = append(cfg.SearchPath, *pathFlag)
	}

	rt := rtscript.New()
	in, err := interp.New(rt, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	defer in.Close()

	switch flag.Arg(0) {
	case "eval":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing expression argument\n", red("Error"))
			os.Exit(1)
		}
		runEval(in, rt, flag.Arg(1))
	case "exec":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing statement argument\n", red("Error"))
			os.Exit(1)
		}
		if !in.Exec(flag.Arg(1)) {
			os.Exit(1)
		}
	case "exec-file":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			os.Exit(1)
		}
		ok, err := in.ExecFile(flag.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			os.Exit(1)
		}
		if !ok {
			os.Exit(1)
		}
	case "repl":
		runREPL(in, rt)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

func runEval(in *interp.Interp, rt abi.Runtime, expr string) {
	result, err := in.Eval(expr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	repr, err := rt.Repr(result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	fmt.Println(repr)
}

func printHelp() {
	fmt.Println(bold("embind - an embeddable scripting runtime binding layer"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  embind <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <expr>     Evaluate an expression and print its value\n", cyan("eval"))
	fmt.Printf("  %s <stmt>     Execute a statement\n", cyan("exec"))
	fmt.Printf("  %s <file>  Execute a file as statements\n", cyan("exec-file"))
	fmt.Printf("  %s             Start the interactive REPL\n", cyan("repl"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --home <dir>   Interpreter home directory")
	fmt.Println("  --path <dir>   Extra module search path entry")
	fmt.Println("  --config <f>   YAML interpreter config file")
	fmt.Println("  --version      Print version information")
	fmt.Println("  --help         Show this help message")
}

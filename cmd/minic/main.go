/*
Minic compiles a single mini-C source file through the lexer, parser,
semantic analyzer, and IR generator, and prints the resulting diagnostics
and three-address IR to standard output.

Usage:

	minic [flags] FILE

The flags are:

	-v, --version
		Print the current version and exit.

	-c, --config FILE
		Load pipeline options from a TOML config file.

	--emit-comments
		Annotate generated IR with comments marking constructed regions.

	--no-fold
		Disable the constant-folding peephole pass.

	--dump-table
		Print the clang grammar's LALR(1) ACTION/GOTO table before compiling.

Exit code 0 on successful lex+parse+semantic+IR. Exit code 1 if any stage
reported an error. Exit code 2 on an I/O failure reading the source file
or the config file.
*/
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/minic/internal/clang"
	"github.com/dekarrin/minic/internal/config"
	"github.com/dekarrin/minic/internal/ierrors"
	"github.com/dekarrin/minic/internal/pipeline"
	"github.com/dekarrin/minic/internal/version"
)

// logger reports fatal I/O errors (a missing source file, an unreadable
// config file) that abort the run before any diagnostics can be collected.
var logger = log.New(os.Stderr, "", 0)

const (
	// ExitSuccess indicates every stage succeeded.
	ExitSuccess = iota

	// ExitCompileError indicates at least one stage reported an error.
	ExitCompileError

	// ExitIOError indicates the source or config file could not be read.
	ExitIOError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "print the current version and exit")
	configFile  *string = pflag.StringP("config", "c", "", "load pipeline options from a TOML config file")
	emitComments *bool  = pflag.Bool("emit-comments", false, "annotate generated IR with comments marking constructed regions")
	noFold      *bool   = pflag.Bool("no-fold", false, "disable the constant-folding peephole pass")
	dumpTable   *bool   = pflag.Bool("dump-table", false, "print the clang grammar's LALR(1) table before compiling")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("minic %s\n", version.Current)
		return
	}

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: minic [flags] FILE")
		returnCode = ExitIOError
		return
	}
	path := pflag.Arg(0)

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			logger.Printf("ERROR could not load config: %s", ierrors.Display(err))
			returnCode = ExitIOError
			return
		}
		cfg = loaded
	}
	if *emitComments {
		cfg.EmitComments = true
	}
	if *noFold {
		cfg.FoldConstants = false
	}

	src, err := os.ReadFile(path)
	if err != nil {
		fatal := ierrors.Wrapf(err, "could not read source file %q", path)
		logger.Printf("ERROR %s", ierrors.Display(fatal))
		returnCode = ExitIOError
		return
	}

	if *dumpTable {
		g, err := clang.Build()
		if err != nil {
			logger.Printf("ERROR %s", ierrors.Display(err))
			returnCode = ExitIOError
			return
		}
		fmt.Println(g.Table.String())
	}

	pl, err := pipeline.New(cfg)
	if err != nil {
		logger.Printf("ERROR %s", ierrors.Display(err))
		returnCode = ExitIOError
		return
	}
	result := pl.Compile(string(src))

	printDiagnostics(result)

	if result.CodeGen.IR != nil {
		fmt.Println(result.CodeGen.IR.String())
	}

	if !result.Success {
		returnCode = ExitCompileError
	}
}

func printDiagnostics(r pipeline.Result) {
	for _, e := range r.Lexical.Errors {
		fmt.Println(e.Error())
	}
	for _, d := range append(r.Parse.Errors.Errors(), r.Parse.Errors.Warnings()...) {
		fmt.Println(d.String())
	}
	for _, d := range r.Semantic.Errors {
		fmt.Println(d.String())
	}
	for _, d := range r.Semantic.Warnings {
		fmt.Println(d.String())
	}
	for _, d := range r.CodeGen.Errors {
		fmt.Println(d.String())
	}
	for _, d := range r.CodeGen.Warnings {
		fmt.Println(d.String())
	}
}

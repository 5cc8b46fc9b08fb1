package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	websh "github.com/telnet2/go-practice/go-websh"
)

func main() {
	dir := pflag.String("dir", websh.DefaultWorkDir, "Initial working directory")
	memFs := pflag.Bool("memfs", true, "Use an in-memory filesystem (host filesystem otherwise)")
	cmd := pflag.StringP("command", "c", "", "Execute a single command line and exit")
	pflag.Parse()

	var fs afero.Fs
	if *memFs {
		fs = afero.NewMemMapFs()
	} else {
		fs = afero.NewOsFs()
	}

	it := websh.New(fs)
	ctx := context.Background()
	cwd := *dir

	if *cmd != "" {
		res := it.ExecuteContext(ctx, *cmd, cwd)
		fmt.Print(res.Stdout)
		fmt.Fprint(os.Stderr, res.Stderr)
		os.Exit(res.Code)
	}

	runREPL(ctx, it, cwd)
}

func runREPL(ctx context.Context, it *websh.Interpreter, cwd string) {
	prompt := color.New(color.FgGreen, color.Bold)
	cont := color.New(color.FgYellow)

	fmt.Println("websh - pseudo shell on an in-memory filesystem")
	fmt.Println("Type 'help' for commands, 'exit' or Ctrl+D to quit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if it.Capturing() {
			cont.Print("> ")
		} else {
			prompt.Printf("%s $ ", cwd)
		}

		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := scanner.Text()

		if !it.Capturing() && (line == "exit" || line == "quit") {
			return
		}

		res := it.ExecuteContext(ctx, line, cwd)
		if res.Dir != "" {
			cwd = res.Dir
		}

		// A lone "> " is the continuation prompt; the loop prints its
		// own, so skip it here.
		if !(it.Capturing() && res.Stdout == "> ") {
			fmt.Print(res.Stdout)
		}
		fmt.Fprint(os.Stderr, res.Stderr)
	}
}

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"minic/internal/ast"
	"minic/internal/compile"
	"minic/internal/events"
	"minic/internal/toolchain"
)

const version = "0.1.0"

var debugMode = false

func main() {
	start := time.Now()
	exitCode := run()
	if exitCode == 0 {
		fmt.Printf("Compile time: %s\n", time.Since(start))
	}
	os.Exit(exitCode)
}

func run() int {
	for _, arg := range os.Args[1:] {
		if arg == "--debug" {
			debugMode = true
			break
		}
	}

	fmt.Println("minic compiler v" + version)
	printDebug("using debug mode")

	if len(os.Args) < 2 {
		fmt.Println("Usage: minic [flags] <file.c>")
		return 1
	}

	var filePath string
	for _, arg := range os.Args[1:] {
		if len(arg) > 0 && arg[0] != '-' {
			filePath = arg
			break
		}
	}
	if filePath == "" {
		fmt.Println("Usage: minic [flags] <file.c>")
		return 1
	}
	printDebug("building using: " + filePath)

	content, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Println("Error: could not read file.")
		fmt.Println("Error details: " + err.Error())
		return 1
	}

	outPath := outputPath(filePath)
	asmOnly := false
	emitEvents := false
	dumpIR := false
	doAssemble := false
	doLink := false
	fetchToolchain := false
	toolchainURL := ""

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-o" && i+1 < len(args):
			outPath = args[i+1]
			i++
		case args[i] == "--asm-only":
			asmOnly = true
		case args[i] == "--emit-events":
			emitEvents = true
		case args[i] == "--dump-ir":
			dumpIR = true
		case args[i] == "--assemble":
			doAssemble = true
		case args[i] == "--link":
			doLink = true
		case args[i] == "--fetch-toolchain":
			fetchToolchain = true
		case strings.HasPrefix(args[i], "--toolchain-url="):
			toolchainURL = strings.TrimPrefix(args[i], "--toolchain-url=")
		}
	}

	printDebug("starting compile pipeline...")
	var result *compile.Result
	if strings.HasSuffix(filePath, ".events.jsonl") {
		printDebug("input is a pre-produced JSON event stream, skipping lex/parse")
		stream, rerr := events.ReadJSONL(bytes.NewReader(content))
		if rerr != nil {
			fmt.Println("Error: could not read event stream.")
			fmt.Println("Error details: " + rerr.Error())
			return 1
		}
		result, err = compile.Events(stream)
	} else {
		result, err = compile.Source(string(content))
	}
	if err != nil {
		fmt.Println("Error:")
		fmt.Printf("  %s\n", err.Error())
		return 1
	}
	printDebug("pipeline complete, no diagnostics")

	if emitEvents {
		eventsPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".events.jsonl"
		f, ferr := os.Create(eventsPath)
		if ferr != nil {
			fmt.Println("Error: could not write event stream.")
			fmt.Println("Error details: " + ferr.Error())
			return 1
		}
		werr := result.Events.WriteJSONL(f)
		f.Close()
		if werr != nil {
			fmt.Println("Error: could not write event stream.")
			fmt.Println("Error details: " + werr.Error())
			return 1
		}
		fmt.Printf("  Events:   %s\n", eventsPath)

		printDebug("--- events ---")
		for _, e := range result.Events {
			printDebug(fmt.Sprintf("%s %q", e.Tag, e.Text))
		}
		printDebug("--- end events ---")
	}

	printDebug("--- AST ---")
	printDebug(ast.DebugString(result.AST))
	printDebug("--- end AST ---")

	if dumpIR {
		fmt.Println("--- IR ---")
		fmt.Print(result.Module.Dump())
		fmt.Println("--- end IR ---")
	}

	if err := os.WriteFile(outPath, []byte(result.Asm), 0o644); err != nil {
		fmt.Println("Error: could not write assembly output.")
		fmt.Println("Error details: " + err.Error())
		return 1
	}

	fmt.Println("Build artifacts:")
	fmt.Printf("  Assembly: %s\n", outPath)

	if asmOnly {
		printDebug("compilation pipeline finished successfully (asm-only)")
		return 0
	}

	if !doAssemble && !doLink {
		return 0
	}

	tc := toolchain.New(filepath.Dir(outPath), strings.TrimSuffix(filepath.Base(outPath), filepath.Ext(outPath)))
	tc.Verbose = debugMode

	if missing := toolchain.Detect(); len(missing) > 0 {
		if fetchToolchain {
			printDebug("fetching toolchain from " + toolchainURL)
			ml64, link, ferr := toolchain.Fetch(toolchainURL, debugMode)
			if ferr != nil {
				fmt.Println("Error: could not fetch toolchain.")
				fmt.Println("Error details: " + ferr.Error())
				return 1
			}
			tc.ML64Path = ml64
			tc.LinkPath = link
		} else {
			fmt.Println("Warning: toolchain not found on PATH:", missing)
			if w := toolchain.WarnNonWindowsHost(); w != "" {
				fmt.Println("Warning:", w)
			}
			return 1
		}
	}

	if err := tc.WriteAssembly(result.Asm); err != nil {
		fmt.Println("Error: could not stage assembly for the toolchain.")
		fmt.Println("Error details: " + err.Error())
		return 1
	}

	if err := tc.Assemble(); err != nil {
		fmt.Println("Error: assembly failed.")
		fmt.Println("Error details: " + err.Error())
		return 1
	}
	fmt.Printf("  Object:   %s\n", tc.ObjFile)

	if doLink {
		driverObj := filepath.Join(filepath.Dir(outPath), "driver.obj")
		if err := tc.Link(driverObj); err != nil {
			fmt.Println("Error: link failed.")
			fmt.Println("Error details: " + err.Error())
			return 1
		}
		fmt.Printf("  Binary:   %s\n", tc.ExeFile)
	}

	printDebug("compilation pipeline finished successfully")
	return 0
}

func outputPath(src string) string {
	ext := filepath.Ext(src)
	return strings.TrimSuffix(src, ext) + ".asm"
}

func printDebug(message string) {
	if !debugMode {
		return
	}
	fmt.Println("[DEBUG] " + message)
}

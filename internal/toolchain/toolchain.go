// Package toolchain invokes the external assembler and linker. It is
// narrowed to Windows x64 ml64/link only, since this compiler never
// targets anything else.
package toolchain

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Toolchain drives ml64 and link against a single .asm file.
type Toolchain struct {
	BuildDir string
	AsmFile  string
	ObjFile  string
	ExeFile  string
	Verbose  bool

	// ML64Path / LinkPath override PATH lookup, populated by an
	// opt-in --fetch-toolchain run (see fetch.go).
	ML64Path string
	LinkPath string
}

// New creates a Toolchain rooted at buildDir with file names derived from
// baseName.
func New(buildDir, baseName string) *Toolchain {
	return &Toolchain{
		BuildDir: buildDir,
		AsmFile:  filepath.Join(buildDir, baseName+".asm"),
		ObjFile:  filepath.Join(buildDir, baseName+".obj"),
		ExeFile:  filepath.Join(buildDir, baseName+".exe"),
	}
}

// WriteAssembly writes asm to tc.AsmFile.
func (tc *Toolchain) WriteAssembly(asm string) error {
	return os.WriteFile(tc.AsmFile, []byte(asm), 0644)
}

// Assemble invokes ml64 to produce an object file from the assembly.
func (tc *Toolchain) Assemble() error {
	ml64 := "ml64"
	if tc.ML64Path != "" {
		ml64 = tc.ML64Path
	}
	cmd := exec.Command(ml64, "/c", "/Fo", tc.ObjFile, tc.AsmFile)
	return tc.run(cmd, "assemble (ml64)")
}

// Link invokes link.exe to produce the final executable, against the
// runtime driver object referenced by driverObj.
func (tc *Toolchain) Link(driverObj string) error {
	link := "link"
	if tc.LinkPath != "" {
		link = tc.LinkPath
	}
	cmd := exec.Command(link,
		"/ENTRY:drive",
		"/SUBSYSTEM:CONSOLE",
		fmt.Sprintf("/OUT:%s", tc.ExeFile),
		tc.ObjFile, driverObj,
		"kernel32.lib",
	)
	return tc.run(cmd, "link")
}

func (tc *Toolchain) run(cmd *exec.Cmd, stage string) error {
	if tc.Verbose {
		fmt.Printf("[toolchain] %s: %s\n", stage, strings.Join(cmd.Args, " "))
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr
	cmd.Stdout = os.Stdout
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %v\n%s", stage, err, stderr.String())
	}
	return nil
}

// Detect reports which required tools are missing from PATH. It never
// fails the build on its own — assembly is always written first regardless.
func Detect() []string {
	var missing []string
	if _, err := exec.LookPath("ml64"); err != nil {
		missing = append(missing, "ml64 (MSVC assembler)")
	}
	if _, err := exec.LookPath("link"); err != nil {
		missing = append(missing, "link (MSVC linker)")
	}
	return missing
}

// WarnNonWindowsHost reports a warning string when compiling on a host that
// is not itself Windows; the emitted assembly always targets Windows x64
// regardless of the host running this compiler.
func WarnNonWindowsHost() string {
	if runtime.GOOS != "windows" {
		return fmt.Sprintf("warning: host OS is %s; ml64/link are Windows-only tools and must be run there or under an emulation layer", runtime.GOOS)
	}
	return ""
}

// Command rono-conformance is Rono's own golden-file differential test
// harness, adapted from the teacher's root differential test runner:
// instead of comparing a reference and a target interpreter binary
// side by side, it runs the `rono` command-line binary against every
// `.rono` fixture under testdata/ and compares captured stdout and
// exit code against a `.golden` expectation file.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
)

var (
	ronoBinary = flag.String("rono", "rono", "path to the rono binary under test")
	testdataDir = flag.String("testdata", "testdata", "directory of .rono/.golden fixture pairs")
)

// TestResult captures one execution's observable outcome.
type TestResult struct {
	Stdout   string
	ExitCode int
	Duration time.Duration
}

// Golden is the parsed expectation file: its first line is the
// expected exit code, the remainder is expected stdout verbatim.
type Golden struct {
	ExitCode int
	Stdout   string
}

// TestCase is one `.rono`/`.golden` fixture pair.
type TestCase struct {
	Name     string
	Source   string
	Expected Golden
	Actual   TestResult
}

const width = 100

func main() {
	flag.Parse()

	cases, err := collectCases(*testdataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slices.SortFunc(cases, func(a, b *TestCase) int { return strings.Compare(a.Name, b.Name) })

	failed := executeAll(cases)
	printSummary(cases, failed)

	if len(failed) > 0 {
		os.Exit(1)
	}
}

func collectCases(dir string) ([]*TestCase, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var cases []*TestCase
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".rono") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".rono")
		goldenPath := filepath.Join(dir, name+".golden")
		golden, err := readGolden(goldenPath)
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", name, err)
		}
		cases = append(cases, &TestCase{
			Name:     name,
			Source:   filepath.Join(dir, entry.Name()),
			Expected: golden,
		})
	}
	return cases, nil
}

func readGolden(path string) (Golden, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Golden{}, err
	}
	lines := strings.SplitN(string(data), "\n", 2)
	exitCode, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Golden{}, fmt.Errorf("first line must be the expected exit code: %w", err)
	}
	stdout := ""
	if len(lines) > 1 {
		stdout = lines[1]
	}
	return Golden{ExitCode: exitCode, Stdout: stdout}, nil
}

func executeAll(cases []*TestCase) []*TestCase {
	var failed []*TestCase
	for _, tc := range cases {
		tc.Actual = execute(*ronoBinary, tc.Source)
		ok := tc.Actual.ExitCode == tc.Expected.ExitCode && tc.Actual.Stdout == tc.Expected.Stdout
		printResult(tc, ok)
		if !ok {
			failed = append(failed, tc)
		}
	}
	return failed
}

func execute(binary, source string) TestResult {
	cmd := exec.Command(binary, "run", source)
	var stdout strings.Builder
	cmd.Stdout = &stdout

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			fmt.Fprintf(os.Stderr, "execution error running %s: %v\n", source, err)
		}
	}

	return TestResult{Stdout: stdout.String(), ExitCode: exitCode, Duration: duration}
}

func printResult(tc *TestCase, ok bool) {
	result := color.GreenString("passed")
	if !ok {
		result = color.RedString("failed")
	}
	spacing := strings.Repeat(" ", max(1, width-len("[passed] ")-len(tc.Name)-12))
	fmt.Printf("[%s] %s%s%9s\n", result, tc.Name, spacing, tc.Actual.Duration)

	if ok {
		return
	}
	if tc.Actual.ExitCode != tc.Expected.ExitCode {
		fmt.Printf("  expected exit code %d, got %d\n", tc.Expected.ExitCode, tc.Actual.ExitCode)
	}
	if tc.Actual.Stdout != tc.Expected.Stdout {
		fmt.Println("  expected stdout | actual stdout")
		printDiff(tc.Expected.Stdout, tc.Actual.Stdout)
	}
}

func printDiff(expected, actual string) {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		spaces := max(2, (width/2)-len(e))
		fmt.Printf("  %s%s%s\n", e, strings.Repeat(" ", spaces), a)
	}
}

func printSummary(cases []*TestCase, failed []*TestCase) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", width))
	fmt.Printf("Tests run: %d\n", len(cases))
	fmt.Printf("Succeeded: %d\n", len(cases)-len(failed))
	fmt.Printf("Failed:    %d\n", len(failed))
	if len(failed) == 0 {
		return
	}
	fmt.Println("\nFailed tests:")
	for _, tc := range failed {
		fmt.Printf("  %s\n", path.Base(tc.Source))
	}
}

package conformance

import (
	"bytes"
	"fmt"
	"strings"

	"ipprun/parser"
	"ipprun/types"
	"ipprun/vm"
)

// TestResult represents the outcome of running a single test
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
}

// Runner executes conformance tests: each case runs the loader and the
// engine in-process over byte buffers and compares stdout, exit code and
// optionally stderr content.
type Runner struct{}

// NewRunner creates a new test runner
func NewRunner() *Runner {
	return &Runner{}
}

// RunAll executes every loaded test
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, 0, len(tests))
	for _, test := range tests {
		results = append(results, r.Run(test))
	}
	return results
}

// Run executes one test case
func (r *Runner) Run(test LoadedTest) TestResult {
	if skipped, reason := test.Test.IsSkipped(); skipped {
		return TestResult{Test: test, Skipped: true, SkipReason: reason}
	}

	if err := r.runCase(test.Test); err != nil {
		return TestResult{Test: test, Error: err}
	}
	return TestResult{Test: test, Passed: true}
}

func (r *Runner) runCase(tc TestCase) error {
	var stdout, stderr bytes.Buffer
	exit := 0

	prog, err := parser.Parse(strings.NewReader(tc.Source))
	if err != nil {
		exit = int(types.CodeOf(err))
		fmt.Fprintln(&stderr, err)
	} else {
		machine := vm.NewVM(prog, strings.NewReader(tc.Input), &stdout, &stderr)
		code, rerr := machine.Run()
		exit = code
		if rerr != nil {
			fmt.Fprintln(&stderr, rerr)
		}
	}

	if exit != tc.Expect.Exit {
		return fmt.Errorf("exit code %d, expected %d (stderr: %s)", exit, tc.Expect.Exit, strings.TrimSpace(stderr.String()))
	}
	if stdout.String() != tc.Expect.Stdout {
		return fmt.Errorf("stdout %q, expected %q", stdout.String(), tc.Expect.Stdout)
	}
	if tc.Expect.StderrContains != "" && !strings.Contains(stderr.String(), tc.Expect.StderrContains) {
		return fmt.Errorf("stderr %q does not contain %q", stderr.String(), tc.Expect.StderrContains)
	}
	return nil
}

// Stats summarizes a run
type Stats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats tallies results
func ComputeStats(results []TestResult) Stats {
	var stats Stats
	for _, result := range results {
		stats.Total++
		switch {
		case result.Skipped:
			stats.Skipped++
		case result.Passed:
			stats.Passed++
		default:
			stats.Failed++
		}
	}
	return stats
}

// FormatStats renders a run summary
func FormatStats(stats Stats) string {
	return fmt.Sprintf("total %d, passed %d, failed %d, skipped %d",
		stats.Total, stats.Passed, stats.Failed, stats.Skipped)
}

package domain

import (
	"bufio"
	"regexp"
	"strings"
)

// TestReport is the per-test outcome recovered from a runner's output.
type TestReport struct {
	Passed []string
	Failed []string
}

var testLinePatterns = []struct {
	re     *regexp.Regexp
	passed bool
}{
	// go test -v
	{regexp.MustCompile(`^\s*--- PASS: (\S+)`), true},
	{regexp.MustCompile(`^\s*--- FAIL: (\S+)`), false},
	// TAP
	{regexp.MustCompile(`^\s*not ok \d+\s*(?:-\s*)?(.*?)\s*(?:#.*)?$`), false},
	{regexp.MustCompile(`^\s*ok \d+\s*(?:-\s*)?(.*?)\s*(?:#.*)?$`), true},
	// Jest and Mocha verbose reporters
	{regexp.MustCompile(`^\s*[✓✔√]\s+(.+?)(?:\s+\(\d+\s*m?s\))?\s*$`), true},
	{regexp.MustCompile(`^\s*[✕✗✖×]\s+(.+?)(?:\s+\(\d+\s*m?s\))?\s*$`), false},
	{regexp.MustCompile(`^\s*\d+\) (.+)$`), false},
}

// ParseTestOutput extracts passing and failing test ids in output order.
// Each id is reported once; a test that both passed and failed counts as
// failed.
func ParseTestOutput(output string) TestReport {
	var report TestReport

	failed := make(map[string]bool)
	passed := make(map[string]bool)
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		for _, p := range testLinePatterns {
			match := p.re.FindStringSubmatch(line)
			if match == nil {
				continue
			}

			id := strings.TrimSpace(match[1])
			if id == "" {
				break
			}

			if p.passed {
				if !passed[id] {
					passed[id] = true
					report.Passed = append(report.Passed, id)
				}
			} else if !failed[id] {
				failed[id] = true
				report.Failed = append(report.Failed, id)
			}

			break
		}
	}

	if len(failed) > 0 {
		kept := report.Passed[:0]
		for _, id := range report.Passed {
			if !failed[id] {
				kept = append(kept, id)
			}
		}

		report.Passed = kept
	}

	return report
}

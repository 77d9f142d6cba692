package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	m "gooze.dev/pkg/mutest/internal/model"
)

// ErrNoReports is returned when a report directory holds no reports.
var ErrNoReports = errors.New("no reports found")

const reportTimeLayout = "20060102T150405Z"

// ReportStore persists run reports as YAML documents.
type ReportStore interface {
	// SaveReport writes report into dir and returns the file it created.
	SaveReport(ctx context.Context, dir m.Path, report m.Report) (m.Path, error)
	// LoadReport reads a report file, or the newest report of a directory.
	LoadReport(ctx context.Context, path m.Path) (m.Report, error)
}

// YAMLReportStore implements ReportStore on the local disk.
type YAMLReportStore struct{}

// NewYAMLReportStore constructs a YAMLReportStore.
func NewYAMLReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReport implements ReportStore.
func (s *YAMLReportStore) SaveReport(ctx context.Context, dir m.Path, report m.Report) (m.Path, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("create report dir %s: %w", dir, err)
	}

	id := report.RunID
	if len(id) > 8 {
		id = id[:8]
	}

	name := fmt.Sprintf("report-%s-%s.yaml", report.StartedAt.UTC().Format(reportTimeLayout), id)
	path := filepath.Join(string(dir), name)

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode report %s: %w", report.RunID, err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		slog.Error("Failed to write report", "path", path, "error", err)
		return "", fmt.Errorf("write report %s: %w", path, err)
	}

	slog.Debug("Saved report", "path", path, "mutants", len(report.Mutants))

	return m.Path(path), nil
}

// LoadReport implements ReportStore.
func (s *YAMLReportStore) LoadReport(ctx context.Context, path m.Path) (m.Report, error) {
	if err := ctx.Err(); err != nil {
		return m.Report{}, err
	}

	info, err := os.Stat(string(path))
	if err != nil {
		return m.Report{}, fmt.Errorf("stat %s: %w", path, err)
	}

	file := string(path)

	if info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(file, "report-*.yaml"))
		if err != nil {
			return m.Report{}, fmt.Errorf("list reports in %s: %w", path, err)
		}

		if len(matches) == 0 {
			return m.Report{}, fmt.Errorf("%s: %w", path, ErrNoReports)
		}

		sort.Strings(matches)
		file = matches[len(matches)-1]
	}

	// #nosec G304 - report paths come from the user's own configuration
	data, err := os.ReadFile(file)
	if err != nil {
		return m.Report{}, fmt.Errorf("read report %s: %w", file, err)
	}

	var report m.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return m.Report{}, fmt.Errorf("decode report %s: %w", file, err)
	}

	return report, nil
}

package download

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	successReportName = ".lastrun.success.json"
	failedReportName  = ".lastrun.failed.json"
)

// FailedInstrument is one entry of the failed run report.
type FailedInstrument struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// writeRunReport records the keys completed and failed in this run under dir.
// Reports from a previous run are replaced or removed.
func writeRunReport(dir string, successList []string, failedList []FailedInstrument, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := writeReportFile(filepath.Join(dir, successReportName), successList, len(successList)); err != nil {
		return err
	}
	if err := writeReportFile(filepath.Join(dir, failedReportName), failedList, len(failedList)); err != nil {
		return err
	}
	logger.Info("report written", "dir", dir, "success", len(successList), "failed", len(failedList))
	return nil
}

func writeReportFile(p string, v any, n int) error {
	if n == 0 {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}

func joinFailedReasons(failedList []FailedInstrument) string {
	if len(failedList) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range failedList {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(f.Reason)
		if i >= 4 && len(failedList) > 6 {
			b.WriteString(fmt.Sprintf(" (+%d more)", len(failedList)-5))
			break
		}
	}
	return b.String()
}

// Package export writes approved applications to an Excel workbook.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/m3rciful/giftbot/app/registry"
	"github.com/m3rciful/giftbot/core/logger"
)

// ErrNothingToExport is returned for an empty application list.
var ErrNothingToExport = errors.New("export: nothing to export")

const (
	sheetName  = "Approved"
	timeLayout = "2006-01-02 15:04:05"
)

var header = []interface{}{"User ID", "Name", "Email", "Birth year", "Phone", "Submitted at", "Approved at"}

// Exporter writes one .xlsx file per call into Dir.
type Exporter struct {
	Dir string
}

// NewExporter returns an Exporter writing into dir, or the OS temp directory
// when dir is empty.
func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

// Export writes apps to a new workbook and returns its path. The caller owns
// the file and is expected to remove it.
func (e *Exporter) Export(ctx context.Context, apps []registry.Application) (string, error) {
	if len(apps) == 0 {
		return "", ErrNothingToExport
	}
	dir := e.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}
	path := filepath.Join(dir, "approved_"+uuid.NewString()+".xlsx")

	start := time.Now()
	err := write(path, apps)
	if err != nil {
		_ = os.Remove(path)
		logger.Error(ctx, logger.ComponentExport, "export.write",
			slog.String("status", logger.Status(err)),
			slog.Any("err", err),
		)
		return "", err
	}
	logger.Debug(ctx, logger.ComponentExport, "export.write",
		slog.String("status", logger.Status(err)),
		slog.String("file", filepath.Base(path)),
		slog.Int("count", len(apps)),
		slog.Duration("duration", logger.Took(start)),
	)
	return path, nil
}

func write(path string, apps []registry.Application) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	for i, app := range apps {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: cell name: %w", err)
		}
		row := []interface{}{
			app.UserID,
			app.Name,
			app.Email,
			app.BirthYear,
			app.Phone,
			formatTime(app.SubmittedAt),
			formatTime(app.ApprovedAt),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("export: row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(sheetName, "A", "G", 20); err != nil {
		return fmt.Errorf("export: column width: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: save: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

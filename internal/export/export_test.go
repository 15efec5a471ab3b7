package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type statRow struct {
	Name       string    `csv:"name"`
	Plays      int       `csv:"plays"`
	WinRate    float64   `csv:"win_rate"`
	Flagged    bool      `csv:"flagged"`
	RecordedAt time.Time `csv:"recorded_at"`
	Note       *string   `csv:"note"`
}

func sampleRows() []statRow {
	note := "high variance"
	return []statRow{
		{
			Name:       "Piercing Arrow",
			Plays:      120,
			WinRate:    0.575,
			Flagged:    false,
			RecordedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			Note:       &note,
		},
		{
			Name:       "Hex",
			Plays:      14,
			WinRate:    0.25,
			Flagged:    true,
			RecordedAt: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
			Note:       nil,
		},
	}
}

func TestExportJSON(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "stats.json")

	exporter := NewExporter(Options{
		Format:     FormatJSON,
		FilePath:   filePath,
		PrettyJSON: true,
		Overwrite:  true,
	})

	if err := exporter.Export(sampleRows()); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("reading export file: %v", err)
	}

	var result []statRow
	if err := json.Unmarshal(content, &result); err != nil {
		t.Fatalf("unmarshal JSON: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("record count = %d, want 2", len(result))
	}
	if result[0].Name != "Piercing Arrow" {
		t.Errorf("first record = %q, want Piercing Arrow", result[0].Name)
	}
}

func TestExportCSV(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "stats.csv")

	exporter := NewExporter(Options{
		Format:    FormatCSV,
		FilePath:  filePath,
		Overwrite: true,
	})

	if err := exporter.Export(sampleRows()); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("reading export file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want header plus 2 rows", len(lines))
	}
	if lines[0] != "name,plays,win_rate,flagged,recorded_at,note" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Piercing Arrow") || !strings.Contains(lines[1], "0.575") {
		t.Errorf("first row missing values: %s", lines[1])
	}
	// Nil pointer renders as an empty column.
	if !strings.HasSuffix(lines[2], ",") {
		t.Errorf("nil note should render empty: %s", lines[2])
	}
}

func TestExportText(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "summary.txt")

	exporter := NewExporter(Options{
		Format:    FormatText,
		FilePath:  filePath,
		Overwrite: true,
	})

	if err := exporter.Export("=== Session ===\nline two\n"); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("reading export file: %v", err)
	}
	if string(content) != "=== Session ===\nline two\n" {
		t.Errorf("text content = %q", string(content))
	}

	if err := exporter.Export(42); err == nil {
		t.Error("Export(42) as text should fail")
	}
}

func TestExportToWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportToWriter(&buf, FormatJSON, sampleRows(), true); err != nil {
		t.Fatalf("ExportToWriter failed: %v", err)
	}

	var result []statRow
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal JSON: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("record count = %d, want 2", len(result))
	}
}

func TestExportToWriterCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportToWriter(&buf, FormatCSV, sampleRows(), false); err != nil {
		t.Fatalf("ExportToWriter failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "name,") {
		t.Errorf("header = %q", lines[0])
	}
}

func TestExportOverwrite(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "stats.json")
	data := sampleRows()

	if err := NewExporter(Options{Format: FormatJSON, FilePath: filePath, Overwrite: true}).Export(data); err != nil {
		t.Fatalf("first export failed: %v", err)
	}

	if err := NewExporter(Options{Format: FormatJSON, FilePath: filePath}).Export(data); err == nil {
		t.Fatal("second export without overwrite should fail")
	}

	if err := NewExporter(Options{Format: FormatJSON, FilePath: filePath, Overwrite: true}).Export(data); err != nil {
		t.Fatalf("export with overwrite failed: %v", err)
	}
}

func TestExportEmptySlice(t *testing.T) {
	exporter := NewExporter(Options{
		Format:   FormatCSV,
		FilePath: filepath.Join(t.TempDir(), "empty.csv"),
	})
	if err := exporter.Export([]statRow{}); err == nil {
		t.Fatal("empty slice export should fail")
	}
}

func TestGenerateFilename(t *testing.T) {
	filename := GenerateFilename("report", FormatCSV)
	if !strings.HasPrefix(filename, "report_") {
		t.Errorf("filename = %q, want report_ prefix", filename)
	}
	if !strings.HasSuffix(filename, ".csv") {
		t.Errorf("filename = %q, want .csv suffix", filename)
	}
}

func TestBuilderValidation(t *testing.T) {
	if err := NewExportBuilder().Export(sampleRows()); err == nil {
		t.Error("export without destination should fail")
	}
	err := NewExportBuilder().
		WithFormat(Format("yaml")).
		WithFilePath(filepath.Join(t.TempDir(), "x.yaml")).
		Export(sampleRows())
	if err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestBuilderCloneIsIndependent(t *testing.T) {
	base := NewExportBuilder().WithOverwrite(true).WithPrettyJSON(true)
	clone := base.Clone().WithFormat(FormatCSV)

	if base.format != FormatJSON {
		t.Errorf("base format = %s, want json", base.format)
	}
	if clone.format != FormatCSV {
		t.Errorf("clone format = %s, want csv", clone.format)
	}
	if !clone.overwrite || !clone.prettyJSON {
		t.Error("clone lost inherited settings")
	}
}

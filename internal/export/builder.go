package export

import (
	"fmt"
	"io"
)

// ExportBuilder provides a fluent API for configuring and executing
// export operations.
//
// Example usage:
//
//	err := NewExportBuilder().
//	    WithFormat(FormatJSON).
//	    WithFilePath("out/report.json").
//	    WithPrettyJSON(true).
//	    WithOverwrite(true).
//	    Export(report)
type ExportBuilder struct {
	format     Format
	filePath   string
	prettyJSON bool
	overwrite  bool
	writer     io.Writer
	useWriter  bool
}

// NewExportBuilder creates a builder with JSON format and no
// destination set.
func NewExportBuilder() *ExportBuilder {
	return &ExportBuilder{format: FormatJSON}
}

// WithFormat sets the export format.
func (b *ExportBuilder) WithFormat(format Format) *ExportBuilder {
	b.format = format
	return b
}

// WithFilePath sets the output file path. The directory is created if
// it does not exist.
func (b *ExportBuilder) WithFilePath(filePath string) *ExportBuilder {
	b.filePath = filePath
	b.useWriter = false
	return b
}

// WithWriter sets an io.Writer as the destination instead of a file.
func (b *ExportBuilder) WithWriter(w io.Writer) *ExportBuilder {
	b.writer = w
	b.useWriter = true
	return b
}

// WithPrettyJSON enables indented output for JSON exports.
func (b *ExportBuilder) WithPrettyJSON(pretty bool) *ExportBuilder {
	b.prettyJSON = pretty
	return b
}

// WithOverwrite enables overwriting an existing file. If false and the
// file exists, Export returns an error.
func (b *ExportBuilder) WithOverwrite(overwrite bool) *ExportBuilder {
	b.overwrite = overwrite
	return b
}

// WithDefaultFilename generates a timestamped filename from the export
// type, e.g. "matches_20240101_120000.json".
func (b *ExportBuilder) WithDefaultFilename(exportType string) *ExportBuilder {
	b.filePath = GenerateFilename(exportType, b.format)
	b.useWriter = false
	return b
}

// Build creates an Options struct from the builder's configuration.
func (b *ExportBuilder) Build() Options {
	return Options{
		Format:     b.format,
		FilePath:   b.filePath,
		PrettyJSON: b.prettyJSON,
		Overwrite:  b.overwrite,
	}
}

// Export executes the export with the configured settings.
func (b *ExportBuilder) Export(data interface{}) error {
	if err := b.validate(); err != nil {
		return err
	}

	if b.useWriter {
		return ExportToWriter(b.writer, b.format, data, b.prettyJSON)
	}

	return NewExporter(b.Build()).Export(data)
}

func (b *ExportBuilder) validate() error {
	if !b.useWriter && b.filePath == "" {
		return fmt.Errorf("either file path or writer must be set")
	}

	switch b.format {
	case FormatCSV, FormatJSON, FormatText:
	default:
		return fmt.Errorf("unsupported export format: %s", b.format)
	}

	return nil
}

// Clone creates a copy of the builder, useful for deriving several
// artifacts from one base configuration.
func (b *ExportBuilder) Clone() *ExportBuilder {
	return &ExportBuilder{
		format:     b.format,
		filePath:   b.filePath,
		prettyJSON: b.prettyJSON,
		overwrite:  b.overwrite,
		writer:     b.writer,
		useWriter:  b.useWriter,
	}
}

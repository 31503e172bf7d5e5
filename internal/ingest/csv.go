// Package ingest reads school directory rows from a delimited source and
// hands them to the engine as raw records.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"

	internalErrors "github.com/gcbaptista/go-school-search/internal/errors"
	"github.com/gcbaptista/go-school-search/model"
)

// Columns names the header fields holding each part of a record.
type Columns struct {
	Name  string
	City  string
	State string
}

// DefaultColumns are the NCES 2005 school directory headers.
var DefaultColumns = Columns{Name: "SCHNAM05", City: "LCITY05", State: "LSTATE05"}

// Options controls how the source is decoded.
type Options struct {
	Columns  Columns
	Encoding string // "windows-1252" (default) or "utf-8"
}

// Reader decodes CSV rows into raw records.
type Reader struct {
	opts   Options
	logger *logrus.Entry
}

// NewReader creates a Reader. Unset columns default to DefaultColumns.
func NewReader(opts Options, logger *logrus.Entry) *Reader {
	if opts.Columns.Name == "" {
		opts.Columns.Name = DefaultColumns.Name
	}
	if opts.Columns.City == "" {
		opts.Columns.City = DefaultColumns.City
	}
	if opts.Columns.State == "" {
		opts.Columns.State = DefaultColumns.State
	}
	if logger == nil {
		logger = logrus.WithField("component", "ingest")
	}
	return &Reader{opts: opts, logger: logger}
}

// Read decodes every row of r in order. The first row must be a header that
// contains the configured columns; other columns are ignored.
func (rd *Reader) Read(r io.Reader) ([]model.RawRecord, error) {
	decoded, err := rd.decoder(r)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, internalErrors.NewIngestError(0, "", fmt.Errorf("missing header row"))
		}
		return nil, internalErrors.NewIngestError(0, "", err)
	}

	nameIdx, err := columnIndex(header, rd.opts.Columns.Name)
	if err != nil {
		return nil, err
	}
	cityIdx, err := columnIndex(header, rd.opts.Columns.City)
	if err != nil {
		return nil, err
	}
	stateIdx, err := columnIndex(header, rd.opts.Columns.State)
	if err != nil {
		return nil, err
	}

	records := make([]model.RawRecord, 0)
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, internalErrors.NewIngestError(row, "", err)
		}
		record := model.RawRecord{}
		if record.Name, err = field(fields, nameIdx, row, rd.opts.Columns.Name); err != nil {
			return nil, err
		}
		if record.City, err = field(fields, cityIdx, row, rd.opts.Columns.City); err != nil {
			return nil, err
		}
		if record.StateCode, err = field(fields, stateIdx, row, rd.opts.Columns.State); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	rd.logger.WithField("records", len(records)).Info("Records read")
	return records, nil
}

// ReadFile opens path and reads it. The context is checked before the file is
// opened; reading itself is not interruptible.
func (rd *Reader) ReadFile(ctx context.Context, path string) ([]model.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open record source %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			rd.logger.WithError(closeErr).Warnf("Failed to close %s", path)
		}
	}()

	records, err := rd.Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read record source %s: %w", path, err)
	}
	return records, nil
}

// FileLoader returns a function suitable as an engine loader.
func (rd *Reader) FileLoader(path string) func(ctx context.Context) ([]model.RawRecord, error) {
	return func(ctx context.Context) ([]model.RawRecord, error) {
		return rd.ReadFile(ctx, path)
	}
}

func (rd *Reader) decoder(r io.Reader) (io.Reader, error) {
	switch strings.ToLower(rd.opts.Encoding) {
	case "", "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	case "utf-8", "utf8":
		return r, nil
	default:
		return nil, internalErrors.NewIngestError(0, "", fmt.Errorf("unsupported encoding '%s'", rd.opts.Encoding))
	}
}

func columnIndex(header []string, column string) (int, error) {
	for i, h := range header {
		// Excel exports may start with a UTF-8 byte order mark
		if strings.TrimPrefix(strings.TrimSpace(h), "\uFEFF") == column {
			return i, nil
		}
	}
	return -1, internalErrors.NewIngestError(0, column, fmt.Errorf("column not found in header"))
}

func field(fields []string, idx, row int, column string) (string, error) {
	if idx >= len(fields) {
		return "", internalErrors.NewIngestError(row, column, fmt.Errorf("row has %d fields", len(fields)))
	}
	return fields[idx], nil
}

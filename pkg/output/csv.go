// Package output writes extracted records to an append-only CSV file.
//
// The sink is resumption-safe: the header row is written only when the file
// is created empty, never on subsequent opens, and every append is flushed
// and fsynced before returning so the caller can checkpoint the page as
// durably written.
package output

import (
	"encoding/csv"
	"os"

	apperrors "acc3scraper/pkg/errors"
	"acc3scraper/pkg/logger"
	"acc3scraper/pkg/records"
)

// CSVSink appends records to a CSV file with a fixed column order
type CSVSink struct {
	file    *os.File
	writer  *csv.Writer
	columns []string
	log     logger.Logger
}

// Open opens the CSV file in append mode, writing the header row only if the
// file did not previously exist or was empty.
func Open(path string) (*CSVSink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeOutput, "failed to open output file", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, apperrors.New(apperrors.ErrorTypeOutput, "failed to stat output file", err)
	}

	sink := &CSVSink{
		file:    file,
		writer:  csv.NewWriter(file),
		columns: records.Columns,
		log:     logger.GetLogger(),
	}

	if info.Size() == 0 {
		if err := sink.writer.Write(sink.columns); err != nil {
			file.Close()
			return nil, apperrors.New(apperrors.ErrorTypeOutput, "failed to write header row", err)
		}
		if err := sink.flush(); err != nil {
			file.Close()
			return nil, err
		}
		sink.log.DebugWithFields("Output file created with header", map[string]interface{}{
			"path": path,
		})
	} else {
		sink.log.InfoWithFields("Appending to existing output file", map[string]interface{}{
			"path":  path,
			"bytes": info.Size(),
		})
	}

	return sink, nil
}

// Append writes one row per record and syncs the file. Fields outside the
// fixed column set are ignored; absent fields render as empty cells.
func (s *CSVSink) Append(recs []*records.Record) error {
	for _, rec := range recs {
		if err := s.writer.Write(rec.Row(s.columns)); err != nil {
			return apperrors.New(apperrors.ErrorTypeOutput, "failed to write record row", err)
		}
	}
	if err := s.flush(); err != nil {
		return err
	}
	// Sync before the caller checkpoints the page as done.
	if err := s.file.Sync(); err != nil {
		return apperrors.New(apperrors.ErrorTypeOutput, "failed to sync output file", err)
	}
	return nil
}

func (s *CSVSink) flush() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return apperrors.New(apperrors.ErrorTypeOutput, "failed to flush output file", err)
	}
	return nil
}

// Close flushes buffered rows and closes the underlying file
func (s *CSVSink) Close() error {
	flushErr := s.flush()
	if err := s.file.Close(); err != nil {
		return apperrors.New(apperrors.ErrorTypeOutput, "failed to close output file", err)
	}
	return flushErr
}

package audithttp

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/decretos-hr/decretos/internal/auditor"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	if s == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if !strings.HasSuffix(line, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		line += "\r\n"
	}
	if _, err := s.buf.WriteString(line); err != nil {
		return err
	}
	return nil
}

func (s *csvStreamer) writeRow(row []string) error {
	if s == nil || s.csv == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	if s == nil || s.csv == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

func (s *csvStreamer) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	return nil
}

func writeFindingsCSV(w io.Writer, report auditor.Report, findings []auditor.Finding) error {
	streamer := newCSVStreamer(w)
	if err := streamer.writeComment("# Report: Decree Consistency Findings"); err != nil {
		return err
	}
	meta := fmt.Sprintf("# Run: %s | Generated: %s | Records: %d | Errors: %d | Warnings: %d",
		report.RunID,
		report.GeneratedAt.Format(time.RFC3339),
		report.Records,
		report.Errors,
		report.Warnings,
	)
	if err := streamer.writeComment(meta); err != nil {
		return err
	}
	if err := streamer.writeRow([]string{"Severity", "Category", "Employee", "RUT", "Act", "Message", "Detail"}); err != nil {
		return err
	}
	for _, f := range findings {
		if err := streamer.writeRow([]string{
			string(f.Severity),
			string(f.Category),
			f.Record.Name,
			f.Record.RUT,
			f.Record.ActNumber,
			f.Message,
			f.Detail,
		}); err != nil {
			return err
		}
	}
	return streamer.Close()
}

// Package report handles stored project reports: saving uploads to disk
// and extracting plain text for the evaluation pipeline.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

// MaxPages bounds how many leading pages are inspected during extraction.
const MaxPages = 5

const (
	// NoTextSentinel is returned when no extractable text exists in any
	// scanned page. Callers must treat it as "no usable content", not as
	// an error.
	NoTextSentinel = "Unable to extract text from PDF. The file may be image-based or encrypted."
	// MissingFileSentinel is returned when the report file cannot be
	// located on disk.
	MissingFileSentinel = "Error: PDF file not found."
)

// TextExtractor produces plain text for a stored report. Extraction never
// fails: degradations surface as sentinel strings so the evaluation
// pipeline can embed them into the prompt instead of aborting.
type TextExtractor interface {
	ExtractText(path string) string
}

type document interface {
	NumPages() int
	PageText(n int) (string, error)
	Close() error
}

// PDFExtractor extracts text from PDF reports.
type PDFExtractor struct {
	logger zerolog.Logger
	open   func(path string) (document, error)
}

// NewPDFExtractor builds the extractor.
func NewPDFExtractor(logger zerolog.Logger) *PDFExtractor {
	return &PDFExtractor{
		logger: logger.With().Str("component", "pdf_extractor").Logger(),
		open:   openPDF,
	}
}

// ExtractText reads at most the first MaxPages pages of the document at
// path and concatenates their text with blank-line separators.
func (e *PDFExtractor) ExtractText(path string) string {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			e.logger.Warn().Str("path", path).Msg("report file missing")
			return MissingFileSentinel
		}
		return fmt.Sprintf("Error extracting PDF: %v", err)
	}

	doc, err := e.open(path)
	if err != nil {
		e.logger.Warn().Err(err).Str("path", path).Msg("failed to open report")
		return fmt.Sprintf("Error extracting PDF: %v", err)
	}
	defer doc.Close()

	pages := doc.NumPages()
	if pages > MaxPages {
		pages = MaxPages
	}

	var builder strings.Builder
	for n := 1; n <= pages; n++ {
		text, err := doc.PageText(n)
		if err != nil {
			// Unreadable pages are skipped, not fatal.
			continue
		}
		if text == "" {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n\n")
	}

	if strings.TrimSpace(builder.String()) == "" {
		return NoTextSentinel
	}

	return builder.String()
}

type pdfDocument struct {
	file   *os.File
	reader *pdf.Reader
}

func openPDF(path string) (document, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	return &pdfDocument{file: file, reader: reader}, nil
}

func (d *pdfDocument) NumPages() int {
	return d.reader.NumPage()
}

func (d *pdfDocument) PageText(n int) (string, error) {
	page := d.reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func (d *pdfDocument) Close() error {
	return d.file.Close()
}

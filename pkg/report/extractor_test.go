package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeDocument struct {
	pages     []string
	pageErrs  map[int]error
	readPages []int
	closed    bool
}

func (f *fakeDocument) NumPages() int { return len(f.pages) }

func (f *fakeDocument) PageText(n int) (string, error) {
	f.readPages = append(f.readPages, n)
	if err, ok := f.pageErrs[n]; ok {
		return "", err
	}
	return f.pages[n-1], nil
}

func (f *fakeDocument) Close() error {
	f.closed = true
	return nil
}

func extractorWithDoc(t *testing.T, doc *fakeDocument) (*PDFExtractor, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o644))

	extractor := NewPDFExtractor(zerolog.New(io.Discard))
	extractor.open = func(string) (document, error) { return doc, nil }
	return extractor, path
}

func TestExtractTextReadsAtMostFivePages(t *testing.T) {
	doc := &fakeDocument{pages: []string{"one", "two", "three", "four", "five", "six", "seven"}}
	extractor, path := extractorWithDoc(t, doc)

	text := extractor.ExtractText(path)

	require.Equal(t, []int{1, 2, 3, 4, 5}, doc.readPages)
	require.Equal(t, "one\n\ntwo\n\nthree\n\nfour\n\nfive\n\n", text)
	require.True(t, doc.closed)
}

func TestExtractTextShortDocumentReadsAllPages(t *testing.T) {
	doc := &fakeDocument{pages: []string{"alpha", "beta"}}
	extractor, path := extractorWithDoc(t, doc)

	text := extractor.ExtractText(path)

	require.Equal(t, []int{1, 2}, doc.readPages)
	require.Equal(t, "alpha\n\nbeta\n\n", text)
}

func TestExtractTextSkipsUnreadablePages(t *testing.T) {
	doc := &fakeDocument{
		pages:    []string{"first", "broken", "third"},
		pageErrs: map[int]error{2: errors.New("bad stream")},
	}
	extractor, path := extractorWithDoc(t, doc)

	text := extractor.ExtractText(path)
	require.Equal(t, "first\n\nthird\n\n", text)
}

func TestExtractTextEmptyDocumentSentinel(t *testing.T) {
	doc := &fakeDocument{pages: []string{"", "  ", ""}}
	extractor, path := extractorWithDoc(t, doc)

	text := extractor.ExtractText(path)
	require.Equal(t, NoTextSentinel, text)
}

func TestExtractTextMissingFileSentinel(t *testing.T) {
	extractor := NewPDFExtractor(zerolog.New(io.Discard))

	text := extractor.ExtractText(filepath.Join(t.TempDir(), "gone.pdf"))
	require.Equal(t, MissingFileSentinel, text)
}

func TestExtractTextOpenFailureSentinel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	extractor := NewPDFExtractor(zerolog.New(io.Discard))
	extractor.open = func(string) (document, error) {
		return nil, fmt.Errorf("malformed PDF")
	}

	text := extractor.ExtractText(path)
	require.True(t, strings.HasPrefix(text, "Error extracting PDF:"))
}

func TestStorageSaveAndRemove(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	path, err := storage.Save(strings.NewReader("%PDF-1.4 content"))
	require.NoError(t, err)
	require.FileExists(t, path)
	require.True(t, strings.HasSuffix(path, ".pdf"))

	require.NoError(t, storage.Remove(path))
	require.NoFileExists(t, path)
}

func TestExtractTextSpacingPageSkippedEntirely(t *testing.T) {
	// Pages past the bound must never be touched, even when the first
	// five yield nothing.
	doc := &fakeDocument{pages: []string{"", "", "", "", "", "hidden"}}
	extractor, path := extractorWithDoc(t, doc)

	text := extractor.ExtractText(path)
	require.Equal(t, NoTextSentinel, text)
	require.NotContains(t, doc.readPages, 6)
}

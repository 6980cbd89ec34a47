// Package textextract pulls plain text out of uploaded study materials.
package textextract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// MaxFileSize bounds how much of an upload is read.
const MaxFileSize = 32 << 20

var (
	// ErrUnsupported is returned for file types with no extractor.
	ErrUnsupported = errors.New("unsupported file type")
	// ErrNotImplemented is returned for recognized types whose extractor is disabled.
	ErrNotImplemented = errors.New("file type not implemented")
	// ErrTooLarge is returned when a file exceeds MaxFileSize.
	ErrTooLarge = errors.New("file too large")
)

// Supported reports whether name has an extension Extract can read.
func Supported(name string) bool {
	switch ext(name) {
	case ".pdf", ".txt", ".md":
		return true
	default:
		return false
	}
}

// Extract reads the file at path.
func Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ExtractReader(filepath.Base(path), f)
}

// ExtractReader reads r, choosing the extractor from name's extension.
func ExtractReader(name string, r io.Reader) (string, error) {
	e := ext(name)
	switch e {
	case ".pdf", ".txt", ".md":
	case ".docx":
		return "", fmt.Errorf("%s: .docx parsing is temporarily disabled: %w", name, ErrNotImplemented)
	default:
		return "", fmt.Errorf("%s: %w: %q", name, ErrUnsupported, e)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("%s: %w (limit %d bytes)", name, ErrTooLarge, MaxFileSize)
	}

	if e == ".pdf" {
		text, err := pdfText(data)
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		return text, nil
	}
	return plainText(data), nil
}

func ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

func plainText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(data)
}

// pdfText checks the document structure with pdfcpu, then concatenates the
// plain text of every page.
func pdfText(data []byte) (string, error) {
	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return "", fmt.Errorf("invalid PDF: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= min(pages, reader.NumPage()); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable pages are skipped; the rest of the document still counts.
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

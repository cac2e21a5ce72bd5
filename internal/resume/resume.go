// Package resume turns uploaded résumé files into plain text.
package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFormat is returned for file types we cannot read
	ErrUnsupportedFormat = errors.New("unsupported résumé format")
	// ErrEmptyText is returned when a file holds no readable text
	ErrEmptyText = errors.New("résumé contains no text")
)

// SupportedExtensions lists the file extensions ExtractText accepts
var SupportedExtensions = []string{".pdf", ".docx", ".txt", ".md"}

var (
	spaceRun   = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlineRun = regexp.MustCompile(` *\n[\n ]*`)
	xmlTag     = regexp.MustCompile(`<[^>]+>`)
	docxBreak  = regexp.MustCompile(`<w:(?:br|cr)\b[^>]*/>`)
)

// ExtractText extracts plain text from a résumé. The format is chosen by
// the file extension.
func ExtractText(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		text, err = extractTextFromPDF(data)
	case ".docx":
		text, err = extractTextFromDocx(data)
	case ".txt", ".md", "":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not UTF-8 text", ErrUnsupportedFormat, filename)
		}
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions, ", "))
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filename, err)
	}

	text = normalizeWhitespace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyText, filename)
	}
	return text, nil
}

func extractTextFromPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractTextFromDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		docXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		break
	}
	if len(docXML) == 0 {
		return "", errors.New("no word/document.xml in docx")
	}

	xml := string(docXML)
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	xml = docxBreak.ReplaceAllString(xml, "\n")
	// runs split words at arbitrary points, so tags vanish without a gap
	return html.UnescapeString(xmlTag.ReplaceAllString(xml, "")), nil
}

// normalizeWhitespace collapses blank runs but keeps line breaks
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = spaceRun.ReplaceAllString(s, " ")
	s = newlineRun.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

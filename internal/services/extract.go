package services

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"alfredoptarigan/placement-copilot/internal/models"
)

const (
	MediaTypePDF   = "application/pdf"
	MediaTypeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypePlain = "text/plain"
)

var ErrNoTextContent = errors.New("no text content found in document")

// TextExtractor pulls plain text out of an uploaded résumé. It runs locally
// and is only used where the model cannot take the file as is, or did not
// echo the text back.
type TextExtractor interface {
	ExtractText(file *models.ResumeFile) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

func (e *textExtractor) ExtractText(file *models.ResumeFile) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return "", ErrNoTextContent
	}

	var (
		text string
		err  error
	)
	switch baseMediaType(file.MediaType) {
	case MediaTypePlain:
		text = string(file.Data)
	case MediaTypePDF:
		text, err = extractPDFText(file.Data)
	case MediaTypeDOCX:
		text, err = extractDocxText(file.Data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", file.MediaType)
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", ErrNoTextContent
	}
	return text, nil
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return stripXMLTags(doc.Editable().GetContent()), nil
}

// stripXMLTags drops the WordprocessingML markup GetContent leaves in place,
// turning paragraph ends into newlines.
func stripXMLTags(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")

	var b strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}

func baseMediaType(mediaType string) string {
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

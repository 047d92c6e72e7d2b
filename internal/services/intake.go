package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"alfredoptarigan/placement-copilot/internal/models"
)

var ErrUnsupportedFile = errors.New("unsupported file type")

var allowedExtensions = map[string]string{
	".pdf":  MediaTypePDF,
	".docx": MediaTypeDOCX,
	".txt":  MediaTypePlain,
}

// FileIntake turns an uploaded multipart file into the bytes-plus-media-type
// form the analysis collaborator accepts. Nothing is written to disk.
type FileIntake interface {
	Read(file *multipart.FileHeader) (*models.ResumeFile, error)
}

type fileIntake struct {
	maxFileSize int64
}

func NewFileIntake(maxFileSize int64) FileIntake {
	return &fileIntake{maxFileSize: maxFileSize}
}

// Read returns the file's metadata without its content when the declared
// size exceeds the ceiling, so the workflow can reject it without buffering
// it.
func (s *fileIntake) Read(file *multipart.FileHeader) (*models.ResumeFile, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	mediaType, ok := allowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}

	out := &models.ResumeFile{
		Name:      file.Filename,
		MediaType: mediaType,
		Size:      file.Size,
	}
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return out, nil
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	var reader io.Reader = src
	if s.maxFileSize > 0 {
		reader = io.LimitReader(src, s.maxFileSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	out.Data = data
	out.Size = int64(len(data))

	if mediaType == MediaTypePDF && !strings.HasPrefix(http.DetectContentType(data), MediaTypePDF) {
		return nil, fmt.Errorf("%w: content is not a PDF", ErrUnsupportedFile)
	}

	return out, nil
}

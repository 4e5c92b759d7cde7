// Package upload accepts lab sheet templates for display. Templates are
// recorded by name and size only; their content is never read.
package upload

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"time"

	"labsheet/internal/model"
)

var ErrUnsupportedTemplate = errors.New("unsupported template type")

// UnsupportedTemplateMessage is shown to the user when a template is refused.
const UnsupportedTemplateMessage = "Please upload a .docx or .tex file"

var templateTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/x-tex": true,
	"text/x-tex":        true,
}

var templateExts = map[string]bool{
	".docx": true,
	".tex":  true,
}

// Accept checks a template by declared type or file extension.
func Accept(name, contentType string, size int64) (*model.TemplateInfo, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == "" {
		return nil, ErrUnsupportedTemplate
	}
	ctype := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if !templateTypes[ctype] && !templateExts[strings.ToLower(filepath.Ext(name))] {
		return nil, ErrUnsupportedTemplate
	}
	if size < 0 {
		size = 0
	}
	return &model.TemplateInfo{
		Name:        name,
		ContentType: ctype,
		SizeBytes:   size,
		SizeKB:      math.Round(float64(size)/1024*10) / 10,
		UploadedAt:  time.Now().UTC(),
	}, nil
}

package model

import (
	"time"

	"labsheet/internal/richtext"
)

// Output is the latest generated text. Whether a generation is running is
// tracked by the store's generation claim, not here.
type Output struct {
	Text      string    `json:"text"`
	Failed    bool      `json:"failed"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TemplateInfo struct {
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	SizeKB      float64   `json:"size_kb"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Workspace is the state behind one browser session.
type Workspace struct {
	ID        string             `json:"id"`
	Form      FormData           `json:"form"`
	Sections  []Section          `json:"sections"`
	Output    Output             `json:"output"`
	Editor    *richtext.Document `json:"editor,omitempty"`
	Template  *TemplateInfo      `json:"template,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Clone returns a deep copy so callers never share slices with a store.
func (w *Workspace) Clone() *Workspace {
	if w == nil {
		return nil
	}
	out := *w
	out.Form.APIKey = ""
	out.Sections = make([]Section, len(w.Sections))
	for i, s := range w.Sections {
		out.Sections[i] = s.Clone()
	}
	if w.Editor != nil {
		out.Editor = w.Editor.Clone()
	}
	if w.Template != nil {
		t := *w.Template
		out.Template = &t
	}
	return &out
}

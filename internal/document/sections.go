// Package document manages the ordered section list of a lab sheet.
package document

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"labsheet/internal/model"
)

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrSectionName     = errors.New("section name is empty")
	ErrImageIndex      = errors.New("image index out of range")
	ErrMoveIndex       = errors.New("move target out of range")
)

var defaultSectionNames = []string{
	"Introduction & Objectives",
	"Materials & Equipment",
	"Procedure",
	"Results & Observations",
	"Analysis & Discussion",
	"Conclusion",
}

// DefaultSections returns the six sections a new lab sheet starts with, with
// ids "1" through "6".
func DefaultSections() []model.Section {
	out := make([]model.Section, len(defaultSectionNames))
	for i, name := range defaultSectionNames {
		out[i] = model.Section{
			ID:     string(rune('1' + i)),
			Name:   name,
			Images: []string{},
		}
	}
	return out
}

// SectionPatch carries optional updates; nil fields are left alone.
type SectionPatch struct {
	Name    *string
	Content *string
}

func Add(sections []model.Section, name string) ([]model.Section, model.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return sections, model.Section{}, ErrSectionName
	}
	section := model.Section{
		ID:     uuid.NewString(),
		Name:   name,
		Images: []string{},
	}
	return append(sections, section), section, nil
}

func Update(sections []model.Section, id string, patch SectionPatch) (model.Section, error) {
	i := indexOf(sections, id)
	if i < 0 {
		return model.Section{}, ErrSectionNotFound
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return model.Section{}, ErrSectionName
		}
		sections[i].Name = name
	}
	if patch.Content != nil {
		sections[i].Content = *patch.Content
	}
	return sections[i], nil
}

func Remove(sections []model.Section, id string) ([]model.Section, error) {
	i := indexOf(sections, id)
	if i < 0 {
		return sections, ErrSectionNotFound
	}
	return append(sections[:i], sections[i+1:]...), nil
}

// Move relocates the section to index to, shifting the others.
func Move(sections []model.Section, id string, to int) ([]model.Section, error) {
	from := indexOf(sections, id)
	if from < 0 {
		return sections, ErrSectionNotFound
	}
	if to < 0 || to >= len(sections) {
		return sections, ErrMoveIndex
	}
	section := sections[from]
	sections = append(sections[:from], sections[from+1:]...)
	sections = append(sections[:to], append([]model.Section{section}, sections[to:]...)...)
	return sections, nil
}

func AppendImages(sections []model.Section, id string, images []string) (model.Section, error) {
	i := indexOf(sections, id)
	if i < 0 {
		return model.Section{}, ErrSectionNotFound
	}
	sections[i].Images = append(sections[i].Images, images...)
	return sections[i], nil
}

func RemoveImage(sections []model.Section, id string, index int) (model.Section, error) {
	i := indexOf(sections, id)
	if i < 0 {
		return model.Section{}, ErrSectionNotFound
	}
	images := sections[i].Images
	if index < 0 || index >= len(images) {
		return model.Section{}, ErrImageIndex
	}
	sections[i].Images = append(images[:index:index], images[index+1:]...)
	return sections[i], nil
}

func Find(sections []model.Section, id string) (model.Section, bool) {
	i := indexOf(sections, id)
	if i < 0 {
		return model.Section{}, false
	}
	return sections[i], true
}

func indexOf(sections []model.Section, id string) int {
	for i := range sections {
		if sections[i].ID == id {
			return i
		}
	}
	return -1
}

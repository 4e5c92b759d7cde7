// Package prompt assembles the generation request text for a lab sheet.
package prompt

import (
	"fmt"
	"strings"

	"labsheet/internal/model"
)

const (
	DefaultSubject    = "General Science"
	DefaultExperiment = "Laboratory Experiment"
)

const formatRequirements = `Format Requirements:
- Use clear, professional headings for each section
- Include detailed, practical instructions suitable for students
- Add safety considerations where relevant
- Make content educational and comprehensive
- Use proper laboratory terminology
- Structure content in a logical, easy-to-follow format
- Include specific details that make this experiment unique and valuable

Generate the complete lab sheet now:`

type Input struct {
	Subject      string
	Experiment   string
	Sections     []model.Section
	Instructions string
}

// FromForm pairs the form fields with the section list.
func FromForm(form model.FormData, sections []model.Section) Input {
	return Input{
		Subject:      form.Subject,
		Experiment:   form.Experiment,
		Sections:     sections,
		Instructions: form.CustomPrompt,
	}
}

// Build is deterministic: the same input always yields the same prompt.
func Build(in Input) string {
	subject := in.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	experiment := in.Experiment
	if experiment == "" {
		experiment = DefaultExperiment
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert laboratory instructor and scientific writer. "+
		"Create a comprehensive, detailed laboratory sheet for a %s experiment titled \"%s\".\n\n", subject, experiment)
	b.WriteString("Generate a well-structured lab sheet that includes the following sections in order:")

	for i, section := range in.Sections {
		fmt.Fprintf(&b, "\n\n%d. %s", i+1, section.Name)
		if section.Content != "" {
			b.WriteString("\n   Requirements: " + section.Content)
		}
		if n := len(section.Images); n > 0 {
			fmt.Fprintf(&b, "\n   Note: Include space for %d image(s) in this section", n)
		}
	}

	if in.Instructions != "" {
		b.WriteString("\n\nAdditional Instructions:\n" + in.Instructions)
	}

	b.WriteString("\n\n" + formatRequirements)
	return b.String()
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"labsheet/internal/config"
	"labsheet/internal/document"
	"labsheet/internal/logging"
	"labsheet/internal/model"
	"labsheet/internal/prompt"
)

type rootOptions struct {
	logLevel string
	logger   *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "labsheet",
		Short:         "Generate and export laboratory sheets",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(config.LogConfig{Level: opts.logLevel, Format: "console"})
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newPromptCmd(),
		newGenerateCmd(opts),
		newInspectCmd(),
	)
	return cmd
}

// sheetFlags describe the form fields shared by prompt and generate.
type sheetFlags struct {
	subject      string
	experiment   string
	instructions string
	sections     []string
	require      []string
}

func (f *sheetFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.subject, "subject", "", "subject area, e.g. Chemistry")
	fl.StringVar(&f.experiment, "experiment", "", "experiment title")
	fl.StringVar(&f.instructions, "instructions", "", "additional instructions for the whole sheet")
	fl.StringArrayVar(&f.sections, "section", nil, "section name, repeatable; replaces the six defaults")
	fl.StringArrayVar(&f.require, "require", nil, `section requirements as "Section=text", repeatable`)
}

// input resolves the flags into prompt input. Requirements for a section that
// does not exist append it.
func (f *sheetFlags) input() (prompt.Input, error) {
	sections := document.DefaultSections()
	if len(f.sections) > 0 {
		sections = sections[:0]
		for _, name := range f.sections {
			var err error
			if sections, _, err = document.Add(sections, name); err != nil {
				return prompt.Input{}, fmt.Errorf("--section %q: %w", name, err)
			}
		}
	}

	for _, req := range f.require {
		name, text, ok := strings.Cut(req, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return prompt.Input{}, fmt.Errorf(`--require %q: want "Section=text"`, req)
		}
		idx := findSection(sections, name)
		if idx < 0 {
			var err error
			if sections, _, err = document.Add(sections, name); err != nil {
				return prompt.Input{}, err
			}
			idx = len(sections) - 1
		}
		content := strings.TrimSpace(text)
		if _, err := document.Update(sections, sections[idx].ID, document.SectionPatch{Content: &content}); err != nil {
			return prompt.Input{}, err
		}
	}

	form := model.FormData{
		Subject:      f.subject,
		Experiment:   f.experiment,
		CustomPrompt: f.instructions,
	}
	return prompt.FromForm(form, sections), nil
}

func findSection(sections []model.Section, name string) int {
	for i, s := range sections {
		if strings.EqualFold(s.Name, name) {
			return i
		}
	}
	return -1
}

package main

import (
	"fmt"
	"os"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"labsheet/internal/pkg/pdfextract"
)

func newInspectCmd() *cobra.Command {
	var (
		width int
		all   bool
	)
	cmd := &cobra.Command{
		Use:   "inspect <file.pdf>",
		Short: "Show the page count and first page text of an exported PDF, or all of its text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width < 0 {
				return fmt.Errorf("--width must not be negative")
			}
			wrap := func(text string) string {
				if width > 0 {
					return wordwrap.String(text, width)
				}
				return text
			}
			out := cmd.OutOrStdout()

			if all {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				text, err := pdfextract.ExtractText(f)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "text:\n%s\n", wrap(text))
				return nil
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			sum, err := pdfextract.Inspect(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "pages: %d\n", sum.Pages)
			if sum.Pages > 0 {
				fmt.Fprintf(out, "first page:\n%s\n", wrap(sum.PageTexts[0]))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "wrap the page text at this many columns (0 disables wrapping)")
	cmd.Flags().BoolVar(&all, "all", false, "print the text of every page instead of the summary")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"labsheet/internal/prompt"
)

func newPromptCmd() *cobra.Command {
	flags := &sheetFlags{}
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the generation prompt for a lab sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.input()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), prompt.Build(in))
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

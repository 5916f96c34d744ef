package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "info",
		Aliases: []string{"describe"},
		Short:   "Describe the calibration index",
		GroupID: gQuery,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, _, err := openIndex(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Println(bold("%s", idx.String()))
			cmd.Printf("  Folder:  %s\n", idx.Folder())
			cmd.Printf("  Records: %d\n", len(idx.Records()))
			cmd.Printf("  Steps:   %s\n", strings.Join(idx.Steps(), ", "))
			cmd.Printf("  Columns: %s\n", strings.Join(idx.Columns(), ", "))
			cmd.Printf("  Loaded:  %s\n", idx.LoadedAt().Format(time.RFC3339))
			return nil
		},
	}
}

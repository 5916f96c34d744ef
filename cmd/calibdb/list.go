package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func NewListCommand() *cobra.Command {
	var step string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List calibration records",
		GroupID: gQuery,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, _, err := openIndex(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STEP\tSTART\tEND\tCHANNEL\tFILTER\tSIZE\tTYPE\tFILE")
			for _, r := range idx.Records() {
				if step != "" && r.Step != step {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Step,
					r.Start.Format(time.DateOnly),
					formatEnd(&r),
					formatChannel(&r),
					formatFilter(&r),
					formatSize(r.Size),
					r.Type,
					r.File,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&step, "step", "s", "", "only list records of this calibration step")

	return cmd
}

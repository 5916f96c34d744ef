package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/charlie0129/calibdb/pkg/calibdb"
)

type resolveJSON struct {
	Step      string            `json:"step"`
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	OpenEnded bool              `json:"openEnded"`
	Channel   *string           `json:"channel,omitempty"`
	Filter    *int              `json:"filter,omitempty"`
	AnyFilter bool              `json:"anyFilter,omitempty"`
	Size      []int             `json:"size"`
	Type      string            `json:"type"`
	File      string            `json:"file"`
	Extra     map[string]string `json:"extra,omitempty"`
	// Data is omitted unless the payload was loaded.
	Data *resolveDataJSON `json:"data,omitempty"`
}

type resolveDataJSON struct {
	Type  string     `json:"type"`
	Shape []int      `json:"shape"`
	Stats arrayStats `json:"stats"`
}

func NewResolveCommand() *cobra.Command {
	var (
		channel  string
		filter   int
		loadData bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:     "resolve STEP DATE",
		Aliases: []string{"get"},
		Short:   "Find the calibration record for a step at a date",
		Long: `Find the calibration record for a step at a date.

DATE is YYYY-MM-DD, an RFC 3339 timestamp, or "now" (the moment the index
was loaded). When several records match, the first one in the table is
returned.`,
		GroupID: gQuery,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, conf, err := openIndex(cmd.Context())
			if err != nil {
				return err
			}
			loc, err := conf.Location()
			if err != nil {
				return err
			}

			at, err := parseTimeArg(args[1], loc, idx.LoadedAt())
			if err != nil {
				return err
			}

			var opts []calibdb.QueryOption
			if cmd.Flags().Changed("channel") {
				opts = append(opts, calibdb.WithChannel(channel))
			}
			if cmd.Flags().Changed("filter") {
				opts = append(opts, calibdb.WithFilter(filter))
			}
			if loadData {
				opts = append(opts, calibdb.WithData())
			}

			rec, err := idx.Resolve(args[0], at, opts...)
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", args[0], err)
			}

			if asJSON {
				return printRecordJSON(cmd, rec)
			}
			printRecord(cmd, idx, rec)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&channel, "channel", "c", "", "instrument channel")
	f.IntVar(&filter, "filter", 0, "filter number (0 matches rows stored as \"all\")")
	f.BoolVarP(&loadData, "data", "d", false, "load the binary payload and print its statistics")
	f.BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func printRecord(cmd *cobra.Command, idx *calibdb.Index, rec *calibdb.Record) {
	cmd.Println(bold("%s", idx.String()))
	cmd.Println()
	cmd.Printf("  Step:    %s\n", bold("%s", rec.Step))
	cmd.Printf("  Valid:   %s .. %s\n", rec.Start.Format(time.DateOnly), formatEnd(rec))
	if idx.HasChannel() {
		cmd.Printf("  Channel: %s\n", formatChannel(rec))
	}
	if idx.HasFilter() {
		cmd.Printf("  Filter:  %s\n", formatFilter(rec))
	}
	cmd.Printf("  Size:    %s\n", formatSize(rec.Size))
	cmd.Printf("  Type:    %s\n", rec.Type)
	cmd.Printf("  File:    %s\n", rec.File)
	for _, k := range slices.Sorted(maps.Keys(rec.Extra)) {
		cmd.Printf("  %s: %s\n", k, rec.Extra[k])
	}

	if rec.Data != nil {
		s := summarize(rec.Data)
		cmd.Println()
		cmd.Println(bold("Data:"))
		cmd.Printf("  %s\n", rec.Data)
		cmd.Printf("  min %g, max %g, mean %g\n", s.Min, s.Max, s.Mean)
	}
}

func printRecordJSON(cmd *cobra.Command, rec *calibdb.Record) error {
	out := resolveJSON{
		Step:      rec.Step,
		Start:     rec.Start,
		End:       rec.End,
		OpenEnded: rec.OpenEnded,
		Channel:   rec.Channel,
		Filter:    rec.Filter,
		AnyFilter: rec.AnyFilter,
		Size:      rec.Size,
		Type:      rec.Type,
		File:      rec.File,
		Extra:     rec.Extra,
	}
	if rec.Data != nil {
		out.Data = &resolveDataJSON{
			Type:  rec.Data.Type.String(),
			Shape: rec.Data.Shape,
			Stats: summarize(rec.Data),
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

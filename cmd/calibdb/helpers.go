package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calibdb/pkg/calibdb"
	"github.com/charlie0129/calibdb/pkg/config"
	"github.com/charlie0129/calibdb/pkg/ndarray"
)

// loadConfig reads the config file and applies command line overrides.
func loadConfig() (*config.File, error) {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if folderFlag != "" {
		conf.SetFolder(folderFlag)
	}
	if remoteFlag != "" {
		conf.SetRemote(remoteFlag)
	}
	if timezoneFlag != "" {
		conf.SetTimezone(timezoneFlag)
	}

	return conf, nil
}

func openIndex(ctx context.Context) (*calibdb.Index, *config.File, error) {
	conf, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logrus.WithFields(conf.LogrusFields()).Debug("opening calibration index")

	loc, err := conf.Location()
	if err != nil {
		return nil, nil, err
	}

	idx, err := calibdb.New(ctx, conf.Folder(),
		calibdb.WithRemote(conf.Remote()),
		calibdb.WithLocation(loc),
	)
	if err != nil {
		return nil, nil, err
	}

	return idx, conf, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-1-2T15:04:05",
	"2006-1-2 15:04:05",
	"2006-1-2",
}

// parseTimeArg parses a date or timestamp. Values without a zone are taken
// in loc. "now" is the moment the index was loaded, so that it falls within
// records whose end date is "Now".
func parseTimeArg(s string, loc *time.Location, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "now" {
		return now.In(loc), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, want YYYY-MM-DD, RFC 3339 or \"now\"", s)
}

type arrayStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

func summarize(a *ndarray.Array) arrayStats {
	values := a.Float64s()
	if len(values) == 0 {
		return arrayStats{}
	}
	s := arrayStats{Min: math.Inf(1), Max: math.Inf(-1)}
	sum := 0.0
	for _, v := range values {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		sum += v
	}
	s.Mean = sum / float64(len(values))
	return s
}

func formatSize(size []int) string {
	parts := make([]string, len(size))
	for i, d := range size {
		parts[i] = fmt.Sprint(d)
	}
	return strings.Join(parts, "x")
}

func formatEnd(r *calibdb.Record) string {
	if r.OpenEnded {
		return "Now"
	}
	return r.End.Format(time.DateOnly)
}

func formatFilter(r *calibdb.Record) string {
	if r.Filter == nil {
		return "-"
	}
	if r.AnyFilter {
		return "all"
	}
	return fmt.Sprint(*r.Filter)
}

func formatChannel(r *calibdb.Record) string {
	if r.Channel == nil {
		return "-"
	}
	return *r.Channel
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

package calibdb

import (
	"maps"
	"time"

	"github.com/charlie0129/calibdb/pkg/ndarray"
)

// Column names of calib_db.csv.
const (
	ColumnStep    = "Calibration_Step"
	ColumnStart   = "Start"
	ColumnEnd     = "End"
	ColumnSize    = "Size"
	ColumnType    = "Type"
	ColumnFile    = "File"
	ColumnChannel = "Channel"
	ColumnFilter  = "Filter"

	// FieldData is the Fields key holding a loaded payload.
	FieldData = "Data"
)

var requiredColumns = []string{ColumnStep, ColumnStart, ColumnEnd, ColumnSize, ColumnType, ColumnFile}

// Record is one row of the calibration table.
type Record struct {
	Step  string
	Start time.Time
	End   time.Time
	// OpenEnded is set when End was given as "Now".
	OpenEnded bool

	// Channel is nil when the table has no Channel column.
	Channel *string
	// Filter is nil when the table has no Filter column.
	Filter *int
	// AnyFilter is set when Filter was given as "all". Filter is then
	// AllFilters, the same value an explicit "0" produces.
	AnyFilter bool

	Size []int
	Type string
	// File is relative to the index folder.
	File string

	// Extra holds any other columns verbatim.
	Extra map[string]string

	// Data is set only when the payload was requested.
	Data *ndarray.Array
}

// Contains reports whether t falls within [Start, End].
func (r *Record) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Fields returns the record keyed by its column names.
func (r *Record) Fields() map[string]any {
	m := make(map[string]any, len(requiredColumns)+len(r.Extra)+3)
	for k, v := range r.Extra {
		m[k] = v
	}
	m[ColumnStep] = r.Step
	m[ColumnStart] = r.Start
	m[ColumnEnd] = r.End
	m[ColumnSize] = append([]int(nil), r.Size...)
	m[ColumnType] = r.Type
	m[ColumnFile] = r.File
	if r.Channel != nil {
		m[ColumnChannel] = *r.Channel
	}
	if r.Filter != nil {
		m[ColumnFilter] = *r.Filter
	}
	if r.Data != nil {
		m[FieldData] = r.Data
	}
	return m
}

func (r *Record) clone() *Record {
	c := *r
	c.Size = append([]int(nil), r.Size...)
	c.Extra = maps.Clone(r.Extra)
	if r.Channel != nil {
		ch := *r.Channel
		c.Channel = &ch
	}
	if r.Filter != nil {
		f := *r.Filter
		c.Filter = &f
	}
	return &c
}

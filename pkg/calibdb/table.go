package calibdb

import (
	"encoding/csv"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// TableFile is the calibration table inside an index folder.
	TableFile = "calib_db.csv"
	// DescriptorFile holds the dataset version and instrument.
	DescriptorFile = "version.yml"
)

type table struct {
	columns    []string
	records    []Record
	hasChannel bool
	hasFilter  bool
}

func loadTable(path string, loc *time.Location, now time.Time) (*table, error) {
	fp, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.Wrapf(ErrNotFound, "%s does not exist, not a valid calibration index", path)
		}
		return nil, pkgerrors.Wrapf(err, "failed to open file %s", path)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", path)
		}
	}(fp)

	t, err := readTable(fp, loc, now)
	if err != nil {
		return nil, pkgerrors.WithMessagef(err, "failed to read %s", path)
	}
	return t, nil
}

func readTable(r io.Reader, loc *time.Location, now time.Time) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, pkgerrors.Wrap(ErrDataFormat, "table is empty")
		}
		return nil, pkgerrors.Wrapf(ErrDataFormat, "%v", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		header[i] = name
		index[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, pkgerrors.Wrapf(ErrDataFormat, "missing column %s", name)
		}
	}

	t := &table{columns: header}
	_, t.hasChannel = index[ColumnChannel]
	_, t.hasFilter = index[ColumnFilter]

	known := append(slices.Clone(requiredColumns), ColumnChannel, ColumnFilter)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrapf(ErrDataFormat, "%v", err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseRow(row, header, index, known, loc, now)
		if err != nil {
			return nil, pkgerrors.WithMessagef(err, "line %d", line)
		}
		t.records = append(t.records, rec)
	}

	return t, nil
}

func parseRow(row, header []string, index map[string]int, known []string, loc *time.Location, now time.Time) (Record, error) {
	cell := func(name string) string {
		return row[index[name]]
	}

	var (
		rec Record
		err error
	)
	rec.Step = cell(ColumnStep)
	rec.Type = strings.TrimSpace(cell(ColumnType))
	rec.File = strings.TrimSpace(cell(ColumnFile))

	if rec.Size, err = parseSize(cell(ColumnSize)); err != nil {
		return rec, pkgerrors.WithMessage(err, ColumnSize)
	}
	if rec.Start, err = parseDate(cell(ColumnStart), loc); err != nil {
		return rec, pkgerrors.WithMessage(err, ColumnStart)
	}
	if rec.End, rec.OpenEnded, err = parseEndDate(cell(ColumnEnd), loc, now); err != nil {
		return rec, pkgerrors.WithMessage(err, ColumnEnd)
	}
	if i, ok := index[ColumnChannel]; ok {
		ch := row[i]
		rec.Channel = &ch
	}
	if i, ok := index[ColumnFilter]; ok {
		f, err := parseFilter(row[i])
		if err != nil {
			return rec, pkgerrors.WithMessage(err, ColumnFilter)
		}
		rec.Filter = &f
		rec.AnyFilter = strings.TrimSpace(row[i]) == allFilters
	}

	for i, name := range header {
		if slices.Contains(known, name) {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[name] = row[i]
	}

	return rec, nil
}

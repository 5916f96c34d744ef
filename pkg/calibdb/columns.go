package calibdb

import (
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
)

const (
	// dateLayout accepts both zero-padded and bare month and day.
	dateLayout = "2006-1-2"

	nowSentinel = "Now"
	allFilters  = "all"

	// AllFilters is the stored filter value of rows that apply to any filter.
	AllFilters = 0
)

// parseSize splits a dash-separated shape such as "512-512".
func parseSize(value string) ([]int, error) {
	parts := strings.Split(value, "-")
	size := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, pkgerrors.Wrapf(ErrDataFormat, "invalid size %q", value)
		}
		size = append(size, n)
	}
	return size, nil
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, pkgerrors.Wrapf(ErrDataFormat, "invalid date %q, want YYYY-MM-DD", value)
	}
	return t, nil
}

// parseEndDate is parseDate plus the "Now" sentinel, which resolves to now.
func parseEndDate(value string, loc *time.Location, now time.Time) (time.Time, bool, error) {
	if strings.TrimSpace(value) == nowSentinel {
		return now, true, nil
	}
	t, err := parseDate(value, loc)
	return t, false, err
}

func parseFilter(value string) (int, error) {
	v := strings.TrimSpace(value)
	if v == allFilters {
		return AllFilters, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, pkgerrors.Wrapf(ErrDataFormat, "invalid filter %q", value)
	}
	return n, nil
}

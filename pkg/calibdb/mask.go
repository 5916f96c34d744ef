package calibdb

import "time"

// mask marks which rows of the table satisfy a condition.
type mask []bool

func fill(n int, v bool) mask {
	m := make(mask, n)
	for i := range m {
		m[i] = v
	}
	return m
}

func (m mask) and(o mask) mask {
	out := make(mask, len(m))
	for i := range m {
		out[i] = m[i] && o[i]
	}
	return out
}

func (m mask) first() int {
	for i, v := range m {
		if v {
			return i
		}
	}
	return -1
}

func (m mask) count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

func stepMask(records []Record, step string) mask {
	m := make(mask, len(records))
	for i := range records {
		m[i] = records[i].Step == step
	}
	return m
}

func dateMask(records []Record, at time.Time) mask {
	m := make(mask, len(records))
	for i := range records {
		m[i] = records[i].Contains(at)
	}
	return m
}

// channelMask matches everything unless the table has a Channel column and a
// channel was asked for.
func channelMask(records []Record, hasColumn bool, channel *string) mask {
	if !hasColumn || channel == nil {
		return fill(len(records), true)
	}
	m := make(mask, len(records))
	for i := range records {
		m[i] = records[i].Channel != nil && *records[i].Channel == *channel
	}
	return m
}

func filterMask(records []Record, hasColumn bool, filter *int) mask {
	if !hasColumn || filter == nil {
		return fill(len(records), true)
	}
	m := make(mask, len(records))
	for i := range records {
		m[i] = records[i].Filter != nil && *records[i].Filter == *filter
	}
	return m
}

package calibdb

import (
	"time"

	"github.com/charlie0129/calibdb/pkg/repo"
)

type options struct {
	remote   string
	fetcher  repo.Fetcher
	location *time.Location
	now      func() time.Time
}

func defaultOptions() options {
	return options{
		fetcher:  &repo.GitFetcher{},
		location: time.UTC,
		now:      time.Now,
	}
}

// Option configures New.
type Option func(*options)

// WithRemote sets the repository to clone from when the folder does not
// exist yet.
func WithRemote(remote string) Option {
	return func(o *options) {
		o.remote = remote
	}
}

// WithFetcher replaces the git clone used to populate a missing folder.
func WithFetcher(f repo.Fetcher) Option {
	return func(o *options) {
		if f != nil {
			o.fetcher = f
		}
	}
}

// WithLocation sets the time zone Start and End dates are interpreted in.
// The default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithClock sets the clock that supplies the "Now" end date.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

type query struct {
	channel  *string
	filter   *int
	loadData bool
}

// QueryOption narrows or extends a Resolve call.
type QueryOption func(*query)

// WithChannel restricts matches to the given channel. It has no effect on
// tables without a Channel column.
func WithChannel(channel string) QueryOption {
	return func(q *query) {
		q.channel = &channel
	}
}

// WithFilter restricts matches to the given filter. It has no effect on
// tables without a Filter column. Rows stored as "all" carry filter 0.
func WithFilter(filter int) QueryOption {
	return func(q *query) {
		q.filter = &filter
	}
}

// WithData loads the record's binary payload into Record.Data.
func WithData() QueryOption {
	return func(q *query) {
		q.loadData = true
	}
}

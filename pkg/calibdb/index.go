package calibdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calibdb/pkg/repo"
)

// Index is a loaded calibration index. It is read-only after New returns and
// safe for concurrent use.
type Index struct {
	folder     string
	version    string
	instrument string
	loadedAt   time.Time
	table      *table
}

// New opens the calibration index in folder. If folder does not exist and a
// remote is configured with WithRemote, it is created and cloned first.
func New(ctx context.Context, folder string, opts ...Option) (*Index, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if folder == "" {
		return nil, pkgerrors.Wrap(ErrConfiguration, "folder cannot be empty")
	}

	fi, err := os.Stat(folder)
	switch {
	case os.IsNotExist(err):
		if o.remote == "" {
			return nil, pkgerrors.Wrapf(ErrNotFound, "folder %s does not exist, please provide a remote", folder)
		}
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to create folder %s", folder)
		}
		if err := o.fetcher.Fetch(ctx, o.remote, folder); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, pkgerrors.Wrapf(err, "failed to stat %s", folder)
	default:
		if !fi.IsDir() {
			return nil, pkgerrors.Wrapf(ErrNotADirectory, "%s is not a directory", folder)
		}
		ok, err := repo.IsRepository(folder)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, pkgerrors.Wrapf(ErrInvalidRepository, "%s is not a git repository", folder)
		}
	}

	idx := &Index{
		folder:   folder,
		loadedAt: o.now(),
	}
	if err := idx.load(o.location); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"folder":     folder,
		"version":    idx.version,
		"instrument": idx.instrument,
		"records":    len(idx.table.records),
	}).Debug("loaded calibration index")

	return idx, nil
}

func (idx *Index) load(loc *time.Location) error {
	t, err := loadTable(filepath.Join(idx.folder, TableFile), loc, idx.loadedAt)
	if err != nil {
		return err
	}
	d, err := loadDescriptor(filepath.Join(idx.folder, DescriptorFile))
	if err != nil {
		return err
	}

	idx.table = t
	idx.version = d.Version
	idx.instrument = d.Instrument
	return nil
}

// Resolve returns the first record, in table order, whose step equals step
// and whose [Start, End] range contains at. WithChannel and WithFilter add
// equality conditions on the optional columns; WithData loads the payload.
func (idx *Index) Resolve(step string, at time.Time, opts ...QueryOption) (*Record, error) {
	var q query
	for _, opt := range opts {
		opt(&q)
	}

	records := idx.table.records
	m := stepMask(records, step).
		and(dateMask(records, at)).
		and(channelMask(records, idx.table.hasChannel, q.channel)).
		and(filterMask(records, idx.table.hasFilter, q.filter))

	i := m.first()
	if i < 0 {
		return nil, pkgerrors.Wrapf(ErrNotFound, "no calibration record for %s", describeQuery(step, at, q))
	}
	if n := m.count(); n > 1 {
		logrus.WithFields(logrus.Fields{
			"step":    step,
			"at":      at,
			"matches": n,
		}).Debug("several calibration records match, using the first")
	}

	rec := records[i].clone()
	if q.loadData {
		data, err := readPayload(idx.folder, rec)
		if err != nil {
			return nil, err
		}
		rec.Data = data
	}
	return rec, nil
}

func describeQuery(step string, at time.Time, q query) string {
	s := fmt.Sprintf("step %q at %s", step, at.Format(time.RFC3339))
	if q.channel != nil {
		s += fmt.Sprintf(", channel %q", *q.channel)
	}
	if q.filter != nil {
		s += fmt.Sprintf(", filter %d", *q.filter)
	}
	return s
}

// Records returns a copy of every record in table order.
func (idx *Index) Records() []Record {
	out := make([]Record, len(idx.table.records))
	for i := range idx.table.records {
		out[i] = *idx.table.records[i].clone()
	}
	return out
}

// Steps returns the distinct calibration step names in first-seen order.
func (idx *Index) Steps() []string {
	var steps []string
	for _, r := range idx.table.records {
		if !slices.Contains(steps, r.Step) {
			steps = append(steps, r.Step)
		}
	}
	return steps
}

// Columns returns the table header.
func (idx *Index) Columns() []string {
	return slices.Clone(idx.table.columns)
}

// HasChannel reports whether the table has a Channel column.
func (idx *Index) HasChannel() bool { return idx.table.hasChannel }

// HasFilter reports whether the table has a Filter column.
func (idx *Index) HasFilter() bool { return idx.table.hasFilter }

// Folder is the index folder payload paths are resolved against.
func (idx *Index) Folder() string { return idx.folder }

// Version is the dataset version from version.yml.
func (idx *Index) Version() string { return idx.version }

// Instrument is the instrument name from version.yml.
func (idx *Index) Instrument() string { return idx.instrument }

// LoadedAt is the moment the table was read. Records with an open end date
// end at this time.
func (idx *Index) LoadedAt() time.Time { return idx.loadedAt }

func (idx *Index) String() string {
	return fmt.Sprintf("CalibDB: %s for %s", idx.version, idx.instrument)
}

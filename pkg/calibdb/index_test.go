package calibdb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/calibdb/pkg/repo"
)

const basicTable = `Calibration_Step,Start,End,Size,Type,File
DARK,2023-01-01,2023-06-30,2-3,<f4,dark/2023a.bin
FLAT,2023-01-01,2023-12-31,2-3,<f4,flat/2023.bin
DARK,2023-07-01,Now,2-3,<f4,dark/2023b.bin
`

const channelFilterTable = `Calibration_Step,Start,End,Channel,Filter,Size,Type,File,Comment
FLAT,2023-01-01,Now,A,all,4,<u2,flat/a_all.bin,generic
FLAT,2023-01-01,Now,A,0,4,<u2,flat/a_0.bin,explicit zero
FLAT,2023-01-01,Now,A,3,4,<u2,flat/a_3.bin,
FLAT,2023-01-01,Now,B,3,4,<u2,flat/b_3.bin,
`

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func openTestIndex(t *testing.T, csv string) *Index {
	t.Helper()
	dir := newIndexDir(t, csv, testDescriptor)
	idx, err := New(context.Background(), dir, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return idx
}

func TestNewRequiresFolder(t *testing.T) {
	_, err := New(context.Background(), "")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestNewMissingFolderWithoutRemote(t *testing.T) {
	_, err := New(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewNotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	writeFile(t, path, []byte("x"))

	_, err := New(context.Background(), path)
	assert.ErrorIs(t, err, ErrNotADirectory)
}

func TestNewInvalidRepository(t *testing.T) {
	dir := t.TempDir()
	writeIndexFiles(t, dir, basicTable, testDescriptor)

	_, err := New(context.Background(), dir)
	assert.ErrorIs(t, err, ErrInvalidRepository)
}

func TestNewFetchesMissingFolder(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "nested", "calib")
	var calls int

	fetcher := repo.FetcherFunc(func(_ context.Context, remote, dir string) error {
		calls++
		assert.Equal(t, "https://example.com/calib.git", remote)
		assert.Equal(t, folder, dir)

		fi, err := os.Stat(dir)
		require.NoError(t, err, "folder must exist before fetching")
		assert.True(t, fi.IsDir())

		writeIndexFiles(t, dir, basicTable, testDescriptor)
		return nil
	})

	idx, err := New(context.Background(), folder,
		WithRemote("https://example.com/calib.git"),
		WithFetcher(fetcher),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, idx.Records(), 3)
}

func TestNewClonesRemote(t *testing.T) {
	src := newRemoteRepo(t, basicTable, testDescriptor)
	folder := filepath.Join(t.TempDir(), "nested", "calib")

	idx, err := New(context.Background(), folder,
		WithRemote("file://"+src),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	assert.Equal(t, "CalibDB: v1.2.0 for SPECTRO-1", idx.String())
	assert.Len(t, idx.Records(), 3)

	ok, err := repo.IsRepository(folder)
	require.NoError(t, err)
	assert.True(t, ok)

	// A second open uses the existing working copy.
	again, err := New(context.Background(), folder)
	require.NoError(t, err)
	assert.Equal(t, idx.Steps(), again.Steps())
}

func TestNewFetchErrorPropagates(t *testing.T) {
	boom := errors.New("network unreachable")
	fetcher := repo.FetcherFunc(func(context.Context, string, string) error { return boom })

	_, err := New(context.Background(), filepath.Join(t.TempDir(), "calib"),
		WithRemote("https://example.com/calib.git"),
		WithFetcher(fetcher),
	)
	assert.ErrorIs(t, err, boom)
}

func TestNewMissingFiles(t *testing.T) {
	dir := newIndexDir(t, "", testDescriptor)
	_, err := New(context.Background(), dir)
	assert.ErrorIs(t, err, ErrNotFound)

	dir = newIndexDir(t, basicTable, "")
	_, err = New(context.Background(), dir)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewBadDescriptor(t *testing.T) {
	dir := newIndexDir(t, basicTable, "version: v1\n")
	_, err := New(context.Background(), dir)
	assert.ErrorIs(t, err, ErrDataFormat)

	dir = newIndexDir(t, basicTable, "version: [1, 2]\ninstrument: X\n")
	_, err = New(context.Background(), dir)
	assert.ErrorIs(t, err, ErrDataFormat)
}

func TestNewBadTable(t *testing.T) {
	cases := map[string]string{
		"missing column": "Calibration_Step,Start,End,Size,Type\nDARK,2023-01-01,Now,2,<f4\n",
		"bad size":       "Calibration_Step,Start,End,Size,Type,File\nDARK,2023-01-01,Now,2x3,<f4,a.bin\n",
		"bad start":      "Calibration_Step,Start,End,Size,Type,File\nDARK,01/01/2023,Now,2,<f4,a.bin\n",
		"bad end":        "Calibration_Step,Start,End,Size,Type,File\nDARK,2023-01-01,later,2,<f4,a.bin\n",
		"bad filter":     "Calibration_Step,Start,End,Size,Type,File,Filter\nDARK,2023-01-01,Now,2,<f4,a.bin,x\n",
		"short row":      "Calibration_Step,Start,End,Size,Type,File\nDARK,2023-01-01,Now\n",
		"empty":          "\n",
	}
	for name, csv := range cases {
		t.Run(name, func(t *testing.T) {
			dir := newIndexDir(t, csv, testDescriptor)
			_, err := New(context.Background(), dir)
			assert.ErrorIs(t, err, ErrDataFormat)
		})
	}
}

func TestString(t *testing.T) {
	idx := openTestIndex(t, basicTable)
	assert.Equal(t, "CalibDB: v1.2.0 for SPECTRO-1", idx.String())
	assert.Equal(t, "v1.2.0", idx.Version())
	assert.Equal(t, "SPECTRO-1", idx.Instrument())
}

func TestDescriptorKeepsScalarText(t *testing.T) {
	dir := newIndexDir(t, basicTable, "version: 1.10\ninstrument: 42\n")
	idx, err := New(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "CalibDB: 1.10 for 42", idx.String())
}

func TestResolveReturnsRow(t *testing.T) {
	idx := openTestIndex(t, basicTable)

	rec, err := idx.Resolve("FLAT", date(2023, time.May, 1))
	require.NoError(t, err)

	want := map[string]any{
		ColumnStep:  "FLAT",
		ColumnStart: date(2023, time.January, 1),
		ColumnEnd:   date(2023, time.December, 31),
		ColumnSize:  []int{2, 3},
		ColumnType:  "<f4",
		ColumnFile:  "flat/2023.bin",
	}
	if diff := cmp.Diff(want, rec.Fields()); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, rec.Channel)
	assert.Nil(t, rec.Filter)
	assert.Nil(t, rec.Data)
}

func TestResolveBoundsAreInclusive(t *testing.T) {
	idx := openTestIndex(t, basicTable)

	rec, err := idx.Resolve("DARK", date(2023, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, "dark/2023a.bin", rec.File)

	rec, err = idx.Resolve("DARK", date(2023, time.June, 30))
	require.NoError(t, err)
	assert.Equal(t, "dark/2023a.bin", rec.File)

	rec, err = idx.Resolve("DARK", date(2023, time.July, 1))
	require.NoError(t, err)
	assert.Equal(t, "dark/2023b.bin", rec.File)
}

func TestResolveOpenEndSnapshot(t *testing.T) {
	idx := openTestIndex(t, basicTable)

	rec, err := idx.Resolve("DARK", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "dark/2023b.bin", rec.File)
	assert.True(t, rec.OpenEnded)
	assert.Equal(t, fixedNow, rec.End)
	assert.Equal(t, fixedNow, idx.LoadedAt())

	rec, err = idx.Resolve("DARK", fixedNow.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "dark/2023b.bin", rec.File)

	// The end date is not re-evaluated after loading.
	_, err = idx.Resolve("DARK", fixedNow.Add(time.Second))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveNoMatch(t *testing.T) {
	idx := openTestIndex(t, basicTable)

	_, err := idx.Resolve("BIAS", date(2023, time.May, 1))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = idx.Resolve("FLAT", date(2022, time.May, 1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveFirstMatchWins(t *testing.T) {
	table := basicTable + "FLAT,2023-03-01,2023-04-30,1,<f8,flat/override.bin\n"
	idx := openTestIndex(t, table)

	rec, err := idx.Resolve("FLAT", date(2023, time.April, 1))
	require.NoError(t, err)
	assert.Equal(t, "flat/2023.bin", rec.File)
}

func TestResolveIgnoresAbsentColumns(t *testing.T) {
	idx := openTestIndex(t, basicTable)
	assert.False(t, idx.HasChannel())
	assert.False(t, idx.HasFilter())

	rec, err := idx.Resolve("FLAT", date(2023, time.May, 1), WithChannel("A"), WithFilter(3))
	require.NoError(t, err)
	assert.Equal(t, "flat/2023.bin", rec.File)
}

func TestResolveChannelAndFilter(t *testing.T) {
	idx := openTestIndex(t, channelFilterTable)
	at := date(2023, time.May, 1)
	assert.True(t, idx.HasChannel())
	assert.True(t, idx.HasFilter())

	rec, err := idx.Resolve("FLAT", at, WithChannel("B"))
	require.NoError(t, err)
	assert.Equal(t, "flat/b_3.bin", rec.File)

	rec, err = idx.Resolve("FLAT", at, WithChannel("A"), WithFilter(3))
	require.NoError(t, err)
	assert.Equal(t, "flat/a_3.bin", rec.File)
	require.NotNil(t, rec.Channel)
	assert.Equal(t, "A", *rec.Channel)
	require.NotNil(t, rec.Filter)
	assert.Equal(t, 3, *rec.Filter)

	_, err = idx.Resolve("FLAT", at, WithChannel("C"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = idx.Resolve("FLAT", at, WithChannel("B"), WithFilter(5))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveWithoutFilterIgnoresFilterColumn(t *testing.T) {
	idx := openTestIndex(t, channelFilterTable)

	rec, err := idx.Resolve("FLAT", date(2023, time.May, 1), WithChannel("B"))
	require.NoError(t, err)
	require.NotNil(t, rec.Filter)
	assert.Equal(t, 3, *rec.Filter)
}

func TestFilterAllIsZero(t *testing.T) {
	idx := openTestIndex(t, channelFilterTable)
	records := idx.Records()
	require.Len(t, records, 4)

	all, zero := records[0], records[1]
	assert.Equal(t, AllFilters, *all.Filter)
	assert.True(t, all.AnyFilter)
	assert.Equal(t, 0, *zero.Filter)
	assert.False(t, zero.AnyFilter)
	assert.NotEqual(t, all.File, zero.File)

	rec, err := idx.Resolve("FLAT", date(2023, time.May, 1), WithChannel("A"), WithFilter(0))
	require.NoError(t, err)
	assert.Equal(t, "flat/a_all.bin", rec.File)
}

func TestExtraColumnsAreKept(t *testing.T) {
	idx := openTestIndex(t, channelFilterTable)

	rec, err := idx.Resolve("FLAT", date(2023, time.May, 1), WithChannel("A"), WithFilter(0))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Comment": "generic"}, rec.Extra)

	fields := rec.Fields()
	assert.Equal(t, "generic", fields["Comment"])
	assert.Equal(t, "A", fields[ColumnChannel])
	assert.Equal(t, 0, fields[ColumnFilter])
}

func TestResolveLoadsData(t *testing.T) {
	dir := newIndexDir(t, basicTable, testDescriptor)
	writeFile(t, filepath.Join(dir, "flat", "2023.bin"), float32LE(0, 1, 2, 10, 11, 12))

	idx, err := New(context.Background(), dir)
	require.NoError(t, err)

	rec, err := idx.Resolve("FLAT", date(2023, time.May, 1), WithData())
	require.NoError(t, err)
	require.NotNil(t, rec.Data)
	assert.Equal(t, []int{2, 3}, rec.Data.Shape)
	assert.Equal(t, []float32{0, 1, 2, 10, 11, 12}, rec.Data.Data)
	assert.Equal(t, 11.0, rec.Data.At(1, 1))
	assert.Same(t, rec.Data, rec.Fields()[FieldData])

	// The index itself is not modified by loading data.
	again, err := idx.Resolve("FLAT", date(2023, time.May, 1))
	require.NoError(t, err)
	assert.Nil(t, again.Data)
}

func TestResolveDataSizeMismatch(t *testing.T) {
	dir := newIndexDir(t, basicTable, testDescriptor)
	writeFile(t, filepath.Join(dir, "flat", "2023.bin"), make([]byte, 20))

	idx, err := New(context.Background(), dir)
	require.NoError(t, err)

	_, err = idx.Resolve("FLAT", date(2023, time.May, 1), WithData())
	assert.ErrorIs(t, err, ErrDataFormat)
}

func TestResolveDataMissingFile(t *testing.T) {
	idx := openTestIndex(t, basicTable)

	_, err := idx.Resolve("FLAT", date(2023, time.May, 1), WithData())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveDataUnknownType(t *testing.T) {
	table := "Calibration_Step,Start,End,Size,Type,File\nLUT,2023-01-01,Now,4,<x9,lut.bin\n"
	dir := newIndexDir(t, table, testDescriptor)
	writeFile(t, filepath.Join(dir, "lut.bin"), make([]byte, 4))

	idx, err := New(context.Background(), dir, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	_, err = idx.Resolve("LUT", date(2023, time.May, 1), WithData())
	assert.ErrorIs(t, err, ErrDataFormat)
}

func TestWithLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	dir := newIndexDir(t, basicTable, testDescriptor)

	idx, err := New(context.Background(), dir, WithLocation(tokyo))
	require.NoError(t, err)

	// 2023-01-01 00:00 JST is still 2022-12-31 in UTC.
	_, err = idx.Resolve("FLAT", time.Date(2022, time.December, 31, 16, 0, 0, 0, time.UTC))
	require.NoError(t, err)
}

func TestStepsAndColumns(t *testing.T) {
	idx := openTestIndex(t, basicTable)
	assert.Equal(t, []string{"DARK", "FLAT"}, idx.Steps())
	assert.Equal(t, []string{"Calibration_Step", "Start", "End", "Size", "Type", "File"}, idx.Columns())
}

func TestRecordsAreCopies(t *testing.T) {
	idx := openTestIndex(t, basicTable)

	records := idx.Records()
	records[0].Size[0] = 99
	records[0].Step = "CHANGED"

	rec, err := idx.Resolve("DARK", date(2023, time.February, 1))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, rec.Size)
}

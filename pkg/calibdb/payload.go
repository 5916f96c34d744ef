package calibdb

import (
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calibdb/pkg/dtype"
	"github.com/charlie0129/calibdb/pkg/ndarray"
)

// readPayload reads rec.File as a flat array of rec.Type and reshapes it to
// rec.Size.
func readPayload(folder string, rec *Record) (*ndarray.Array, error) {
	path := filepath.Join(folder, filepath.FromSlash(rec.File))

	t, err := dtype.Parse(rec.Type)
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrDataFormat, "%s: %v", path, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.Wrapf(ErrNotFound, "calibration file %s does not exist", path)
		}
		return nil, pkgerrors.Wrapf(err, "failed to read file %s", path)
	}

	arr, err := ndarray.FromBytes(t, raw, rec.Size)
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrDataFormat, "%s: %v", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"file":  path,
		"type":  t.String(),
		"shape": rec.Size,
	}).Debug("loaded calibration payload")

	return arr, nil
}

package calibdb

import (
	"os"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type descriptor struct {
	Version    string
	Instrument string
}

func loadDescriptor(path string) (*descriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.Wrapf(ErrNotFound, "%s does not exist", path)
		}
		return nil, pkgerrors.Wrapf(err, "failed to read file %s", path)
	}

	// Decode into nodes first so that a missing key can be told apart
	// from an empty one.
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, pkgerrors.Wrapf(ErrDataFormat, "failed to unmarshal %s: %v", path, err)
	}

	d := &descriptor{}
	for key, dst := range map[string]*string{"version": &d.Version, "instrument": &d.Instrument} {
		node, ok := raw[key]
		if !ok {
			return nil, pkgerrors.Wrapf(ErrDataFormat, "%s has no %q key", path, key)
		}
		if node.Kind != yaml.ScalarNode {
			return nil, pkgerrors.Wrapf(ErrDataFormat, "%s: %q must be a scalar", path, key)
		}
		*dst = node.Value
	}

	return d, nil
}

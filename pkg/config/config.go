package config

import "time"

type Config interface {
	// Folder is the local calibration index folder.
	Folder() string
	// Remote is the repository cloned into Folder when it does not exist.
	Remote() string
	// Timezone is the IANA zone table dates are interpreted in.
	Timezone() string
	// Location resolves Timezone.
	Location() (*time.Location, error)

	SetFolder(string)
	SetRemote(string)
	SetTimezone(string)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}

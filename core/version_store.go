package core

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

const versionMarkerFilename = "launcherDownloadConfig.json"

const defaultAppID = "10003"

type versionStoreFileSystem interface {
	contracts.FileReader
	contracts.FileWriter
}

// LocalVersionStore reads and writes the on-disk version marker, the sole
// source of "local version" truth. A missing marker means "not installed".
type LocalVersionStore struct {
	fileSystem versionStoreFileSystem
	path       string
}

func NewLocalVersionStore(fileSystem versionStoreFileSystem, gameFolder string) *LocalVersionStore {
	return &LocalVersionStore{
		fileSystem: fileSystem,
		path:       filepath.Join(gameFolder, versionMarkerFilename),
	}
}

// Read returns the persisted marker, or found == false when none exists.
func (this *LocalVersionStore) Read() (marker contracts.VersionMarker, found bool, err error) {
	raw, err := this.fileSystem.ReadFile(this.path)
	if errors.Is(err, os.ErrNotExist) {
		return marker, false, nil
	}
	if err != nil {
		return marker, false, err
	}
	err = json.Unmarshal(raw, &marker)
	if err != nil {
		return marker, false, err
	}
	return marker, true, nil
}

// Write persists version as the local version. Opaque fields of an existing
// marker pass through unchanged; a fresh marker gets the default app id.
func (this *LocalVersionStore) Write(version string) error {
	marker, found, err := this.Read()
	if err != nil {
		return err
	}
	if !found {
		marker.AppID = defaultAppID
	}
	marker.Version = version
	raw, err := json.Marshal(marker)
	if err != nil {
		return err
	}
	return this.fileSystem.WriteFile(this.path, raw)
}

package contracts

import (
	"errors"
	"fmt"
)

// LauncherIndex is the root document served by the launcher API. Everything
// this engine cares about hangs off the "default" key.
type LauncherIndex struct {
	Default Manifest `json:"default"`
}

type Manifest struct {
	Version           string          `json:"version"`
	ResourcesBasePath string          `json:"resourcesBasePath"`
	CdnList           []CdnNode       `json:"cdnList"`
	Config            LauncherConfig  `json:"config"`
	Resource          []ResourceEntry `json:"resource"`
}

type LauncherConfig struct {
	IndexFile   string        `json:"indexFile"`
	PatchConfig []PatchConfig `json:"patchConfig"`
}

// PatchConfig describes one incremental-patch origin. An empty Ext list means
// the listed version cannot be patched and must take the full update path.
type PatchConfig struct {
	Version   string   `json:"version"`
	BaseURL   string   `json:"baseUrl"`
	IndexFile string   `json:"indexFile"`
	Ext       []string `json:"ext"`
}

// ResourceIndex is the per-version file listing referenced by
// LauncherConfig.IndexFile.
type ResourceIndex struct {
	Resource []ResourceEntry `json:"resource"`
}

type ResourceEntry struct {
	Dest       string `json:"dest"`
	Size       int64  `json:"size"`
	MD5        string `json:"md5"`
	FromFolder string `json:"fromFolder,omitempty"`
}

func (this *Manifest) Validate() error {
	if this.Version == "" {
		return errors.New("manifest version is required")
	}
	inventory := make(map[string]struct{})
	for _, entry := range this.Resource {
		if entry.Dest == "" {
			return errors.New("resource dest is required")
		}
		if entry.Size < 0 {
			return fmt.Errorf("negative size for resource %q", entry.Dest)
		}
		if _, found := inventory[entry.Dest]; found {
			return fmt.Errorf("duplicate resource dest %q", entry.Dest)
		}
		inventory[entry.Dest] = struct{}{}
	}
	return nil
}

type CdnNode struct {
	URL string `json:"url"`
	K1  int    `json:"K1"`
	K2  int    `json:"K2"`
	P   int    `json:"P"`
}

func (this CdnNode) Eligible() bool {
	return this.K1 == 1 && this.K2 == 1
}

package shell

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const settingsFilename = "settings.json"

// Settings carries the Proton/compat configuration. The sync engine never
// writes these; they are read-only collaborator state.
type Settings struct {
	ProtonVersion       string `json:"proton_version"`
	ProtonPath          string `json:"proton_path"`
	SteamAppID          string `json:"steamappid"`
	ProtonMediaUseGst   string `json:"proton_media_use_gst"`
	ProtonEnableWayland string `json:"proton_enable_wayland"`
	ProtonNoD3D12       string `json:"proton_no_d3d12"`
	MangoHud            string `json:"mangohud"`
}

// SettingsStore persists settings.json beside the launcher, seeding defaults
// (including the newest discovered Proton) on first run.
type SettingsStore struct {
	path   string
	proton *ProtonFinder
}

func NewSettingsStore(baseDir string, proton *ProtonFinder) *SettingsStore {
	return &SettingsStore{path: filepath.Join(baseDir, settingsFilename), proton: proton}
}

func (this *SettingsStore) Load() (Settings, error) {
	raw, err := os.ReadFile(this.path)
	if errors.Is(err, os.ErrNotExist) {
		settings := this.defaults()
		return settings, this.Save(settings)
	}
	if err != nil {
		return Settings{}, err
	}
	var settings Settings
	err = json.Unmarshal(raw, &settings)
	return settings, err
}

func (this *SettingsStore) Save(settings Settings) error {
	raw, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(this.path, raw, 0644)
}

func (this *SettingsStore) defaults() Settings {
	settings := Settings{
		SteamAppID:          "0",
		ProtonMediaUseGst:   "0",
		ProtonEnableWayland: "0",
		ProtonNoD3D12:       "0",
		MangoHud:            "0",
	}
	if latest, found := this.proton.Latest(); found {
		settings.ProtonVersion = latest.Version
		settings.ProtonPath = latest.Path
	}
	return settings
}

package shell

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Process is a handle on a launched game, just enough for the UI to stop it.
type Process interface {
	Wait() error
	Terminate() error
}

// GameLauncher starts the installed game. Implementations own every
// platform-conditional detail; the sync engine never touches them.
type GameLauncher interface {
	Launch(executablePath string, env []string) (Process, error)
}

// ProtonLauncher runs a Windows game executable through Proton with the
// Steam compat environment the settings store describes.
type ProtonLauncher struct {
	baseDir  string
	settings Settings
	logger   zerolog.Logger
}

func NewProtonLauncher(baseDir string, settings Settings, logger zerolog.Logger) *ProtonLauncher {
	return &ProtonLauncher{baseDir: baseDir, settings: settings, logger: logger}
}

func (this *ProtonLauncher) Launch(executablePath string, env []string) (Process, error) {
	compatData := filepath.Join(this.baseDir, "compatdata", this.settings.SteamAppID)
	err := os.MkdirAll(compatData, 0755)
	if err != nil {
		return nil, err
	}

	home, _ := os.UserHomeDir()
	environment := append(os.Environ(),
		"STEAM_COMPAT_DATA_PATH="+compatData,
		"STEAM_COMPAT_CLIENT_INSTALL_PATH="+filepath.Join(home, ".steam", "steam"),
		"STEAM_PROTON_PATH="+this.settings.ProtonPath,
		"WINEPREFIX="+filepath.Join(compatData, "pfx"),
		"STEAMDECK=1",
	)
	if this.settings.SteamAppID != "0" {
		environment = append(environment, "STEAMAPPID="+this.settings.SteamAppID)
	}
	if this.settings.ProtonMediaUseGst == "1" {
		environment = append(environment, "PROTON_MEDIA_USE_GST=1")
	}
	if this.settings.ProtonEnableWayland == "1" {
		environment = append(environment, "PROTON_ENABLE_WAYLAND=1")
	}
	if this.settings.ProtonNoD3D12 == "1" {
		environment = append(environment, "PROTON_NO_D3D12=1")
	}
	environment = append(environment, env...)

	argv := []string{this.settings.ProtonPath, "waitforexitandrun", executablePath}
	if this.settings.MangoHud == "1" {
		argv = append([]string{"mangohud"}, argv...)
	}
	command := exec.Command(argv[0], argv[1:]...)
	command.Env = environment
	err = command.Start()
	if err != nil {
		this.logger.Error().Str("proton", this.settings.ProtonPath).Err(err).Msg("failed to launch game")
		return nil, err
	}
	this.logger.Info().Str("proton", this.settings.ProtonPath).Str("exe", executablePath).Msg("launched game")
	return &protonProcess{command: command}, nil
}

type protonProcess struct {
	command *exec.Cmd
}

func (this *protonProcess) Wait() error {
	return this.command.Wait()
}

func (this *protonProcess) Terminate() error {
	return this.command.Process.Kill()
}

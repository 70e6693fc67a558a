package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
	"github.com/xiaobai01111/SSMT4-Linux/core"
	"github.com/xiaobai01111/SSMT4-Linux/shell"
)

type App struct {
	config   Config
	logger   zerolog.Logger
	launcher *core.Launcher
	client   contracts.HTTPClient
	progress *consoleProgress
}

func newApp(config Config, logger zerolog.Logger) *App {
	disk := shell.NewDiskFileSystem()
	client := shell.NewHTTPClient()
	toolFetcher := core.NewResumableDownloader(client, disk, logger)
	tool := shell.NewHpatchzTool(filepath.Join(config.BaseDir, "tools"), toolFetcher, logger)

	launcher := core.NewLauncher(core.LauncherOptions{
		API:        config.API,
		BaseDir:    config.BaseDir,
		GameFolder: config.GameFolder,
		PackedDir:  config.PackedDir,
		Client:     client,
		FileSystem: disk,
		Tool:       tool,
		Logger:     logger,
	})

	progress := newConsoleProgress()
	launcher.SetProgressCallback(progress.Callback)

	return &App{
		config:   config,
		logger:   logger,
		launcher: launcher,
		client:   client,
		progress: progress,
	}
}

// RunAuto performs whatever the derived state calls for.
func (this *App) RunAuto() int {
	this.fetchBackground()

	switch this.launcher.State() {
	case contracts.StateNetworkError:
		this.logger.Error().Msg("could not reach the launcher manifest; nothing to do")
		return 1
	case contracts.StateNeedInstall:
		return this.RunInstall()
	case contracts.StateNeedUpdate:
		return this.RunPatch()
	default:
		this.logger.Info().Str("version", this.launcher.LocalVersion()).Msg("client is current")
		return 0
	}
}

func (this *App) RunInstall() int {
	failed := this.launcher.Install()
	if failed > 0 {
		this.logger.Warn().Int("failed", failed).Msg("resources failed to download; verify will retry them")
	}
	return this.RunVerify()
}

func (this *App) RunUpdate() int {
	failed := this.launcher.Update()
	if failed > 0 {
		this.logger.Warn().Int("failed", failed).Msg("resources failed to update; verify will retry them")
	}
	return this.RunVerify()
}

// RunPatch takes the incremental path, falling back to a full update when
// this version cannot be patched or the diff-apply step fails.
func (this *App) RunPatch() int {
	err := this.launcher.PatchUpdate()
	if errors.Is(err, contracts.ErrPatchUnsupported) {
		this.logger.Info().Str("version", this.launcher.LocalVersion()).Msg("incremental patching unsupported, taking full update path")
		return this.RunUpdate()
	}
	if err != nil {
		this.logger.Warn().Err(err).Msg("incremental patch failed, taking full update path")
		return this.RunUpdate()
	}
	return this.RunVerify()
}

func (this *App) RunVerify() int {
	unresolved, err := this.launcher.Verify()
	this.progress.Finish()
	if err != nil {
		this.logger.Error().Err(err).Msg("could not persist local version")
		return 1
	}
	if unresolved > 0 {
		this.logger.Error().Int("unresolved", unresolved).Msg("resources still corrupt after re-download")
		return 1
	}
	this.logger.Info().Str("version", this.launcher.LocalVersion()).Msg("client verified")
	return 0
}

func (this *App) RunLaunch() int {
	this.progress.Finish()
	state := this.launcher.State()
	if state != contracts.StateStartGame {
		this.logger.Error().Stringer("state", state).Msg("client is not ready to launch")
		return 1
	}

	home, _ := os.UserHomeDir()
	store := shell.NewSettingsStore(this.config.BaseDir, shell.NewProtonFinder(home))
	settings, err := store.Load()
	if err != nil {
		this.logger.Error().Err(err).Msg("could not load settings")
		return 1
	}

	launcher := shell.NewProtonLauncher(this.config.BaseDir, settings, this.logger)
	executable := filepath.Join(this.launcher.GameFolder(), this.config.GameExe)
	process, err := launcher.Launch(executable, nil)
	if err != nil {
		return 1
	}

	this.launcher.States().Set(contracts.StateGameRunning)
	_ = process.Wait()
	this.launcher.States().Set(contracts.StateStartGame)
	return 0
}

func (this *App) fetchBackground() {
	disk := shell.NewDiskFileSystem()
	fetcher := core.NewBackgroundFetcher(
		core.NewManifestClient(this.client, this.logger),
		core.NewResumableDownloader(this.client, disk, this.logger),
		func(functionCode string) string { return fmt.Sprintf(backgroundInfoURL, functionCode) },
		filepath.Join(this.config.BaseDir, "resource"),
		this.logger,
	)
	background := fetcher.Fetch(defaultDownloadAPI)
	this.logger.Debug().Str("background", background.Background).Str("slogan", background.Slogan).Msg("background assets resolved")
}

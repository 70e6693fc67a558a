package core

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

// GameFileSystem is everything the engine needs from the disk.
type GameFileSystem interface {
	contracts.FileChecker
	contracts.FileOpener
	contracts.FileCreator
	contracts.FileAppender
	contracts.FileReader
	contracts.FileWriter
	contracts.Renamer
	contracts.Deleter
	contracts.TreeDeleter
	contracts.DirLister
}

type LauncherOptions struct {
	API        string
	BaseDir    string
	GameFolder string // directory name under BaseDir holding the client tree
	PackedDir  string // slash-separated manifest prefix of packed resources
	Client     contracts.HTTPClient
	FileSystem GameFileSystem
	Tool       PatchTool
	Logger     zerolog.Logger
}

// Launcher is the single context object tying the engine together: one
// manifest, one CDN choice, one version marker, one progress aggregator.
// It is constructed once and passed around explicitly; there is no hidden
// process-wide instance.
type Launcher struct {
	options      LauncherOptions
	gameFolder   string
	manifest     contracts.Manifest
	cdnBase      string
	localVersion string
	client       *ManifestClient
	downloader   *ResumableDownloader
	synchronizer *ResourceSynchronizer
	patch        *PatchEngine
	versions     *LocalVersionStore
	progress     *ProgressAggregator
	states       *StateHolder
	logger       zerolog.Logger
}

// NewLauncher fetches the manifest, selects a CDN, reads the local version
// marker, and derives the startup state. Network failures leave the launcher
// in StateNetworkError; no further core operation will proceed in that run.
func NewLauncher(options LauncherOptions) *Launcher {
	this := &Launcher{
		options:    options,
		gameFolder: filepath.Join(options.BaseDir, options.GameFolder),
		client:     NewManifestClient(options.Client, options.Logger),
		progress:   NewProgressAggregator(),
		states:     NewStateHolder(contracts.StateStartGame),
		logger:     options.Logger,
	}
	this.versions = NewLocalVersionStore(options.FileSystem, this.gameFolder)
	this.downloader = NewResumableDownloader(options.Client, options.FileSystem, options.Logger)
	this.initialize()
	return this
}

func (this *Launcher) initialize() {
	if !this.resolveManifest() {
		this.states.Set(contracts.StateNetworkError)
		this.logger.Error().Msg("set launcher state to NetworkError")
		return
	}

	marker, found, err := this.versions.Read()
	if err != nil {
		this.logger.Warn().Err(err).Msg("unreadable version marker, treating as not installed")
	} else if found {
		this.localVersion = marker.Version
	}

	state := DeriveState(true, this.localVersion, this.manifest.Version, this.anyResourceMissing)
	this.states.Set(state)
	this.logger.Info().Stringer("state", state).Msg("derived launcher state")

	this.synchronizer = NewResourceSynchronizer(
		this.manifest,
		this.cdnBase,
		this.gameFolder,
		this.options.PackedDir,
		this.downloader,
		NewIntegrityVerifier(this.options.FileSystem),
		this.options.FileSystem,
		this.versions,
		this.progress,
		this.states,
		this.logger,
	)
	this.patch = NewPatchEngine(
		this.manifest.Config.PatchConfig,
		this.cdnBase,
		this.options.BaseDir,
		this.gameFolder,
		this.client,
		this.downloader,
		this.options.Tool,
		this.options.FileSystem,
		this.progress,
		this.states,
		this.logger,
	)
}

// resolveManifest assembles the full manifest: the launcher index document
// plus the per-version resource listing it points at. A manifest without a
// usable CDN or resource list cannot drive any operation, so each failure
// here counts as a failed manifest fetch.
func (this *Launcher) resolveManifest() bool {
	var index contracts.LauncherIndex
	err := this.client.Fetch(this.options.API, &index)
	if err != nil {
		return false
	}
	this.manifest = index.Default

	this.cdnBase, err = SelectCdn(this.manifest.CdnList)
	if err != nil {
		this.logger.Error().Err(err).Msg("cdn selection failed")
		return false
	}

	var resources contracts.ResourceIndex
	err = this.client.Fetch(JoinURL(this.cdnBase, this.manifest.Config.IndexFile), &resources)
	if err != nil {
		return false
	}
	this.manifest.Resource = resources.Resource

	err = this.manifest.Validate()
	if err != nil {
		this.logger.Error().Err(err).Msg("manifest rejected")
		return false
	}
	return true
}

func (this *Launcher) anyResourceMissing() bool {
	for _, entry := range this.manifest.Resource {
		destPath := filepath.Join(this.gameFolder, filepath.FromSlash(entry.Dest))
		if _, err := this.options.FileSystem.Stat(destPath); err != nil {
			return true
		}
	}
	return false
}

func (this *Launcher) State() contracts.LauncherState { return this.states.Current() }
func (this *Launcher) States() *StateHolder           { return this.states }
func (this *Launcher) Manifest() contracts.Manifest   { return this.manifest }
func (this *Launcher) CdnBase() string                { return this.cdnBase }
func (this *Launcher) LocalVersion() string           { return this.localVersion }
func (this *Launcher) GameFolder() string             { return this.gameFolder }
func (this *Launcher) Progress() *ProgressAggregator  { return this.progress }

func (this *Launcher) SetProgressCallback(callback contracts.ProgressCallback) {
	this.progress.SetCallback(callback)
}

// Install downloads the full client tree, returning how many resources
// failed. Unusable in StateNetworkError.
func (this *Launcher) Install() int {
	if this.State() == contracts.StateNetworkError {
		return len(this.manifest.Resource)
	}
	return this.synchronizer.Install()
}

// Update repairs any resource whose digest disagrees with the manifest.
func (this *Launcher) Update() int {
	if this.State() == contracts.StateNetworkError {
		return len(this.manifest.Resource)
	}
	return this.synchronizer.Update()
}

// Verify runs the self-heal pass and persists the manifest version on
// completion, which also refreshes this launcher's view of it.
func (this *Launcher) Verify() (unresolved int, err error) {
	if this.State() == contracts.StateNetworkError {
		return 0, contracts.ErrNoEligibleCdn
	}
	unresolved, err = this.synchronizer.Verify()
	if err == nil {
		this.localVersion = this.manifest.Version
	}
	return unresolved, err
}

// PatchUpdate takes the incremental path when the local version is eligible.
// contracts.ErrPatchUnsupported tells the caller to fall back to Update.
func (this *Launcher) PatchUpdate() error {
	if this.State() == contracts.StateNetworkError {
		return contracts.ErrNoEligibleCdn
	}
	return this.patch.Run(this.localVersion)
}

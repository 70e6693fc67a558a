package core

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

// PatchTool applies a binary delta package: it reconstructs outputTree from
// originalTree plus patchFile. Implementations run an external executable in
// force mode and fetch it on demand when missing.
type PatchTool interface {
	Apply(originalTree, patchFile, outputTree string) error
}

type documentFetcher interface {
	Fetch(address string, document interface{}) error
}

type patchFileSystem interface {
	contracts.FileChecker
	contracts.Deleter
	contracts.TreeDeleter
	contracts.Renamer
	contracts.DirLister
}

// PatchEngine resolves the incremental-patch manifest for the local version,
// stages carry-over files and the delta package, invokes the diff-apply tool,
// and merges the result into the live tree.
type PatchEngine struct {
	patchConfigs []contracts.PatchConfig
	cdnBase      string
	baseDir      string
	gameFolder   string
	client       documentFetcher
	downloader   Downloader
	tool         PatchTool
	fileSystem   patchFileSystem
	progress     *ProgressAggregator
	states       *StateHolder
	logger       zerolog.Logger
}

func NewPatchEngine(
	patchConfigs []contracts.PatchConfig,
	cdnBase string,
	baseDir string,
	gameFolder string,
	client documentFetcher,
	downloader Downloader,
	tool PatchTool,
	fileSystem patchFileSystem,
	progress *ProgressAggregator,
	states *StateHolder,
	logger zerolog.Logger,
) *PatchEngine {
	return &PatchEngine{
		patchConfigs: patchConfigs,
		cdnBase:      cdnBase,
		baseDir:      baseDir,
		gameFolder:   gameFolder,
		client:       client,
		downloader:   downloader,
		tool:         tool,
		fileSystem:   fileSystem,
		progress:     progress,
		states:       states,
		logger:       logger,
	}
}

// Eligible reports whether localVersion can take the incremental-patch path
// and returns its patch configuration when it can. Patching requires an
// installed version with a patch entry whose ext list is non-empty.
func (this *PatchEngine) Eligible(localVersion string) (contracts.PatchConfig, error) {
	if localVersion == "" {
		return contracts.PatchConfig{}, contracts.ErrPatchUnsupported
	}
	for _, config := range this.patchConfigs {
		if config.Version != localVersion {
			continue
		}
		if len(config.Ext) == 0 {
			return contracts.PatchConfig{}, contracts.ErrPatchUnsupported
		}
		return config, nil
	}
	return contracts.PatchConfig{}, contracts.ErrPatchUnsupported
}

// Run executes the full incremental update: stage, diff-apply, merge. A tool
// failure short-circuits only the merge step; the returned error lets the
// caller fall back to a full update.
func (this *PatchEngine) Run(localVersion string) error {
	config, err := this.Eligible(localVersion)
	if err != nil {
		return err
	}

	var index contracts.ResourceIndex
	err = this.client.Fetch(JoinURL(this.cdnBase, config.IndexFile), &index)
	if err != nil {
		return err
	}

	scratchFolder := filepath.Join(filepath.Dir(this.gameFolder), "temp_folder")
	deltaPath := this.stage(config, index.Resource, scratchFolder)
	if deltaPath == "" {
		this.logger.Warn().Str("version", localVersion).Msg("patch manifest carried no delta package")
		return nil
	}

	this.states.Set(contracts.StateMerging)
	err = this.tool.Apply(this.gameFolder, deltaPath, scratchFolder)
	if err != nil {
		this.logger.Error().Err(err).Msg("diff-apply failed, skipping merge")
		return err
	}

	err = this.merge(scratchFolder)
	if err != nil {
		return err
	}

	if err = this.fileSystem.DeleteTree(scratchFolder); err != nil {
		return err
	}
	return this.fileSystem.Delete(deltaPath)
}

// stage downloads every patch resource: carry-over entries (fromFolder) land
// in the scratch tree unchanged from a previous release, while the delta
// package lands beside the installation root. Returns the delta path, empty
// when the manifest listed none.
func (this *PatchEngine) stage(config contracts.PatchConfig, resources []contracts.ResourceEntry, scratchFolder string) (deltaPath string) {
	var totalSize int64
	for _, entry := range resources {
		totalSize += entry.Size
	}
	this.progress.Begin(contracts.OperationPatch, totalSize, len(resources))
	sink := this.progress.Sink(contracts.OperationPatch)

	for index, entry := range resources {
		var address, destPath string
		if entry.FromFolder != "" {
			address = EscapeResourceURL(JoinURL(this.cdnBase, entry.FromFolder+"/"+entry.Dest))
			destPath = filepath.Join(scratchFolder, filepath.FromSlash(entry.Dest))
		} else {
			address = EscapeResourceURL(JoinURL(this.cdnBase, config.BaseURL+"/"+entry.Dest))
			destPath = filepath.Join(this.baseDir, filepath.FromSlash(entry.Dest))
			deltaPath = destPath
		}
		this.logger.Info().
			Int("file", index+1).
			Int("of", len(resources)).
			Str("path", destPath).
			Msg("downloading patch resource")
		this.downloader.Fetch(address, destPath, false, entry.Size, sink)
		this.progress.FinishItem(contracts.OperationPatch)
	}
	return deltaPath
}

// merge moves every scratch entry into the live tree. A colliding live entry
// is removed first (file: unlink; directory: recursive delete), so old and
// new content never coexist under one path.
func (this *PatchEngine) merge(scratchFolder string) error {
	listing, err := this.fileSystem.ListDir(scratchFolder)
	if err != nil {
		return err
	}
	for _, entry := range listing {
		livePath := filepath.Join(this.gameFolder, filepath.Base(entry.Path()))
		if info, statErr := this.fileSystem.Stat(livePath); statErr == nil {
			if info.IsDir() {
				err = this.fileSystem.DeleteTree(livePath)
			} else {
				err = this.fileSystem.Delete(livePath)
			}
			if err != nil {
				return fmt.Errorf("could not clear %q before merge: %w", livePath, err)
			}
		}
		if err = this.fileSystem.Rename(entry.Path(), livePath); err != nil {
			return fmt.Errorf("could not merge %q into place: %w", entry.Path(), err)
		}
	}
	return nil
}

package core

import (
	"errors"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

type Downloader interface {
	Fetch(address, destPath string, overwrite bool, expectedSize int64, sink contracts.ProgressSink) bool
}

type Digester interface {
	Digest(path string) (string, error)
}

type versionWriter interface {
	Write(version string) error
}

type synchronizerFileSystem interface {
	contracts.DirLister
	contracts.Deleter
}

// ResourceSynchronizer drives full-install, update, and verify passes over
// the manifest's resource list, strictly in manifest order. Ordering affects
// only the reported progress sequence, not correctness.
type ResourceSynchronizer struct {
	manifest   contracts.Manifest
	cdnBase    string
	gameFolder string
	packedDir  string
	downloader Downloader
	digester   Digester
	fileSystem synchronizerFileSystem
	versions   versionWriter
	progress   *ProgressAggregator
	states     *StateHolder
	logger     zerolog.Logger
}

func NewResourceSynchronizer(
	manifest contracts.Manifest,
	cdnBase string,
	gameFolder string,
	packedDir string,
	downloader Downloader,
	digester Digester,
	fileSystem synchronizerFileSystem,
	versions versionWriter,
	progress *ProgressAggregator,
	states *StateHolder,
	logger zerolog.Logger,
) *ResourceSynchronizer {
	return &ResourceSynchronizer{
		manifest:   manifest,
		cdnBase:    cdnBase,
		gameFolder: gameFolder,
		packedDir:  packedDir,
		downloader: downloader,
		digester:   digester,
		fileSystem: fileSystem,
		versions:   versions,
		progress:   progress,
		states:     states,
		logger:     logger,
	}
}

// Install downloads every resource that is not already in place. It returns
// the number of resources that could not be fetched.
func (this *ResourceSynchronizer) Install() (failed int) {
	this.states.Set(contracts.StateDownloading)
	this.begin(contracts.OperationDownload)
	this.logger.Info().Int("count", len(this.manifest.Resource)).Msg("start downloading game client files")

	sink := this.progress.Sink(contracts.OperationDownload)
	for index, entry := range this.manifest.Resource {
		destPath := this.destPath(entry)
		this.logger.Info().
			Int("file", index+1).
			Int("of", len(this.manifest.Resource)).
			Str("path", destPath).
			Msg("downloading")
		if !this.downloader.Fetch(this.resourceURL(entry), destPath, false, entry.Size, sink) {
			failed++
		}
		this.progress.FinishItem(contracts.OperationDownload)
	}
	return failed
}

// Update re-downloads every resource whose local digest disagrees with the
// manifest; matching resources advance progress without network I/O.
func (this *ResourceSynchronizer) Update() (failed int) {
	this.states.Set(contracts.StateUpdating)
	this.begin(contracts.OperationUpdate)
	this.logger.Info().Int("count", len(this.manifest.Resource)).Msg("start updating game client files")

	sink := this.progress.Sink(contracts.OperationUpdate)
	for index, entry := range this.manifest.Resource {
		destPath := this.destPath(entry)
		this.logger.Info().
			Int("file", index+1).
			Int("of", len(this.manifest.Resource)).
			Str("path", destPath).
			Msg("updating")
		actual, err := this.digester.Digest(destPath)
		if err == nil && actual == entry.MD5 {
			this.logger.Info().Str("path", destPath).Msg("MD5 match")
			this.progress.Advance(contracts.OperationUpdate, entry.Size)
			this.progress.FinishItem(contracts.OperationUpdate)
			continue
		}
		this.logMismatch(destPath, entry.MD5, actual, err)
		if !this.downloader.Fetch(this.resourceURL(entry), destPath, true, entry.Size, sink) {
			failed++
		}
		this.progress.FinishItem(contracts.OperationUpdate)
	}
	return failed
}

// Verify prunes stale packed files, re-checks every resource digest with a
// single re-download attempt per mismatch, and finally persists the manifest
// version — the one moment the local version advances. A resource that stays
// corrupt after its retry is logged and counted but does not halt the pass.
func (this *ResourceSynchronizer) Verify() (unresolved int, err error) {
	this.states.Set(contracts.StateValidating)
	this.begin(contracts.OperationVerify)
	this.prune()

	for _, entry := range this.manifest.Resource {
		destPath := this.destPath(entry)
		actual, digestErr := this.digester.Digest(destPath)
		if digestErr == nil && actual == entry.MD5 {
			this.logger.Info().Str("path", destPath).Msg("MD5 match")
			this.progress.Advance(contracts.OperationVerify, entry.Size)
			this.progress.FinishItem(contracts.OperationVerify)
			continue
		}
		this.logMismatch(destPath, entry.MD5, actual, digestErr)

		this.downloader.Fetch(this.resourceURL(entry), destPath, true, entry.Size, nil)

		actual, digestErr = this.digester.Digest(destPath)
		if digestErr == nil && actual == entry.MD5 {
			this.logger.Info().Str("path", destPath).Msg("MD5 OK after re-download")
		} else {
			unresolved++
			this.logger.Error().
				Err(&contracts.ChecksumError{Path: destPath, Expected: entry.MD5, Actual: actual}).
				Msg("still MD5 mismatch after re-download")
		}
		this.progress.Advance(contracts.OperationVerify, entry.Size)
		this.progress.FinishItem(contracts.OperationVerify)
	}

	return unresolved, this.versions.Write(this.manifest.Version)
}

// prune removes files under the packed-resource directory that no manifest
// dest references, so stale content from prior versions cannot linger.
func (this *ResourceSynchronizer) prune() {
	if this.packedDir == "" {
		return
	}
	referenced := make(map[string]struct{})
	prefix := strings.TrimSuffix(this.packedDir, "/") + "/"
	for _, entry := range this.manifest.Resource {
		if strings.HasPrefix(entry.Dest, prefix) {
			referenced[path.Base(entry.Dest)] = struct{}{}
		}
	}

	localDir := filepath.Join(this.gameFolder, filepath.FromSlash(this.packedDir))
	listing, err := this.fileSystem.ListDir(localDir)
	if err != nil {
		return
	}
	for _, info := range listing {
		if info.IsDir() {
			continue
		}
		name := filepath.Base(info.Path())
		if _, found := referenced[name]; found {
			continue
		}
		this.logger.Warn().Str("path", info.Path()).Msg("stale packed file will be removed")
		if err = this.fileSystem.Delete(info.Path()); err != nil {
			this.logger.Error().Str("path", info.Path()).Err(err).Msg("could not remove stale packed file")
		}
	}
}

func (this *ResourceSynchronizer) begin(kind contracts.OperationKind) {
	var totalSize int64
	for _, entry := range this.manifest.Resource {
		totalSize += entry.Size
	}
	this.progress.Begin(kind, totalSize, len(this.manifest.Resource))
}

func (this *ResourceSynchronizer) resourceURL(entry contracts.ResourceEntry) string {
	raw := JoinURL(this.cdnBase, this.manifest.ResourcesBasePath+"/"+entry.Dest)
	return EscapeResourceURL(raw)
}

func (this *ResourceSynchronizer) destPath(entry contracts.ResourceEntry) string {
	return filepath.Join(this.gameFolder, filepath.FromSlash(entry.Dest))
}

func (this *ResourceSynchronizer) logMismatch(path, expected, actual string, err error) {
	event := this.logger.Warn().Str("path", path).Str("expected", expected)
	if errors.Is(err, contracts.ErrFileMissing) {
		event.Msg("file missing")
		return
	}
	if err != nil {
		event.Err(err).Msg("could not compute digest")
		return
	}
	event.Str("actual", actual).Msg("MD5 mismatch")
}

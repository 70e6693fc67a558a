package core

import (
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

const (
	tempSuffix        = ".temp"
	downloadChunkSize = 1024 * 1024
)

type downloaderFileSystem interface {
	contracts.FileChecker
	contracts.FileCreator
	contracts.FileAppender
	contracts.Renamer
	contracts.Deleter
}

// ResumableDownloader fetches a single remote file into place. Transfers land
// in a sibling ".temp" file whose size becomes the resume offset on the next
// attempt; only a completed transfer is renamed onto the final path. Every
// failure is logged and reported as a false return, never a fault — the
// orchestrator decides whether to retry or move on.
type ResumableDownloader struct {
	client     contracts.HTTPClient
	fileSystem downloaderFileSystem
	logger     zerolog.Logger
}

func NewResumableDownloader(client contracts.HTTPClient, fileSystem downloaderFileSystem, logger zerolog.Logger) *ResumableDownloader {
	return &ResumableDownloader{client: client, fileSystem: fileSystem, logger: logger}
}

// Fetch downloads address into destPath. When destPath already exists and
// overwrite is false the file is treated as satisfied and expectedSize (when
// positive) is reported to sink without any network call. A nil sink leaves
// the transfer unreported.
func (this *ResumableDownloader) Fetch(address, destPath string, overwrite bool, expectedSize int64, sink contracts.ProgressSink) bool {
	if _, err := this.fileSystem.Stat(destPath); err == nil {
		if !overwrite {
			if sink != nil && expectedSize > 0 {
				sink.Advance(expectedSize)
			}
			this.logger.Info().Str("path", destPath).Msg("already exists, skipping download")
			return true
		}
		if err = this.fileSystem.Delete(destPath); err != nil {
			this.logger.Error().Str("path", destPath).Err(err).Msg("could not delete file for re-download")
			return false
		}
		this.logger.Info().Str("path", destPath).Msg("deleted, starting re-download")
	}

	tempPath := destPath + tempSuffix
	var offset int64
	if info, err := this.fileSystem.Stat(tempPath); err == nil {
		offset = info.Size()
	}

	request, err := http.NewRequest(http.MethodGet, address, nil)
	if err != nil {
		this.logger.Error().Str("url", address).Err(err).Msg("malformed download address")
		return false
	}
	request.Header.Set("User-Agent", manifestUserAgent)
	if offset > 0 {
		request.Header.Set("Range", "bytes="+strconv.FormatInt(offset, 10)+"-")
	}

	response, err := this.client.Do(request)
	if err != nil {
		this.logger.Error().Str("url", address).Err(err).Msg("download error")
		return false
	}
	defer func() { _ = response.Body.Close() }()

	var writer io.WriteCloser
	switch response.StatusCode {
	case http.StatusPartialContent:
		// The bytes already on disk are satisfied content; credit them now
		// so the pass can reach completion.
		if sink != nil && offset > 0 {
			sink.Advance(offset)
		}
		writer, err = this.fileSystem.Append(tempPath)

	case http.StatusOK:
		if offset > 0 {
			this.logger.Warn().Str("url", address).Msg("server does not support resume, restarting download")
		}
		writer, err = this.fileSystem.Create(tempPath)

	case http.StatusRequestedRangeNotSatisfiable:
		// A previous run finished the transfer but never promoted the temp
		// file; recognize the completed content instead of failing.
		if expectedSize > 0 && offset == expectedSize {
			if err = this.fileSystem.Rename(tempPath, destPath); err != nil {
				this.logger.Error().Str("path", destPath).Err(err).Msg("could not promote completed temp file")
				return false
			}
			this.logger.Info().Str("path", destPath).Msg("temp file already complete, promoted")
			return true
		}
		this.logger.Error().Str("url", address).Int64("offset", offset).Msg("range not satisfiable")
		return false

	default:
		this.logger.Error().Str("url", address).Int("status", response.StatusCode).Msg("unexpected HTTP status")
		return false
	}
	if err != nil {
		this.logger.Error().Str("path", tempPath).Err(err).Msg("could not open temp file")
		return false
	}

	if !this.transfer(response.Body, writer, tempPath, sink) {
		return false
	}

	if err = this.fileSystem.Rename(tempPath, destPath); err != nil {
		this.logger.Error().Str("path", destPath).Err(err).Msg("could not move temp file into place")
		return false
	}
	return true
}

// transfer copies the body in bounded chunks, reporting each chunk as it
// lands so progress reflects true transfer rate. The temp file is retained on
// failure for a future resume attempt.
func (this *ResumableDownloader) transfer(body io.Reader, writer io.WriteCloser, tempPath string, sink contracts.ProgressSink) bool {
	defer func() { _ = writer.Close() }()
	buffer := make([]byte, downloadChunkSize)
	for {
		count, err := body.Read(buffer)
		if count > 0 {
			if _, writeErr := writer.Write(buffer[:count]); writeErr != nil {
				this.logger.Error().Str("path", tempPath).Err(writeErr).Msg("could not write chunk")
				return false
			}
			if sink != nil {
				sink.Advance(int64(count))
			}
		}
		if err == io.EOF {
			return true
		}
		if err != nil {
			this.logger.Error().Str("path", tempPath).Err(err).Msg("download interrupted")
			return false
		}
	}
}

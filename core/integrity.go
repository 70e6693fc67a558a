package core

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

// IntegrityVerifier streams file content through MD5 and renders the digest
// as lowercase hex, matching the manifest format exactly. MD5 is mandated by
// the upstream manifest and is not negotiable.
type IntegrityVerifier struct {
	fileSystem contracts.FileOpener
}

func NewIntegrityVerifier(fileSystem contracts.FileOpener) *IntegrityVerifier {
	return &IntegrityVerifier{fileSystem: fileSystem}
}

// Digest returns contracts.ErrFileMissing when the path does not exist,
// which is distinct from the digest of an empty file.
func (this *IntegrityVerifier) Digest(path string) (string, error) {
	reader, err := this.fileSystem.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", contracts.ErrFileMissing, path)
	}
	if err != nil {
		return "", err
	}
	defer func() { _ = reader.Close() }()

	hasher := md5.New()
	_, err = io.Copy(hasher, reader)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

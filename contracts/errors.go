package contracts

import (
	"errors"
	"fmt"
)

var (
	ErrFileMissing      = errors.New("file not found")
	ErrPatchUnsupported = errors.New("incremental patching unsupported for this version")
	ErrNoEligibleCdn    = errors.New("no eligible cdn node")
)

type FetchFailure int

const (
	FetchTransportFailure FetchFailure = iota
	FetchBadStatus
	FetchDecodeFailure
)

func (this FetchFailure) String() string {
	switch this {
	case FetchTransportFailure:
		return "transport failure"
	case FetchBadStatus:
		return "bad status"
	case FetchDecodeFailure:
		return "decode failure"
	default:
		return "unknown failure"
	}
}

// FetchError reports why a remote document or asset could not be retrieved,
// distinguishing transport faults from bad statuses from undecodable bodies.
type FetchError struct {
	URL     string
	Failure FetchFailure
	Status  int
	Err     error
}

func (this *FetchError) Error() string {
	if this.Failure == FetchBadStatus {
		return fmt.Sprintf("fetch %s: %s (HTTP %d)", this.URL, this.Failure, this.Status)
	}
	return fmt.Sprintf("fetch %s: %s: %v", this.URL, this.Failure, this.Err)
}

func (this *FetchError) Unwrap() error { return this.Err }

type ChecksumError struct {
	Path     string
	Expected string
	Actual   string
}

func (this *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch for %q (expected: [%s], actual: [%s])", this.Path, this.Expected, this.Actual)
}

type ToolError struct {
	Tool string
	Err  error
}

func (this *ToolError) Error() string {
	return fmt.Sprintf("patch tool %q: %v", this.Tool, this.Err)
}

func (this *ToolError) Unwrap() error { return this.Err }

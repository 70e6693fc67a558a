package contracts

// OperationKind is a closed enumeration; each kind carries its own counters so
// an unknown kind cannot be silently folded into another operation's totals.
type OperationKind int

const (
	OperationDownload OperationKind = iota
	OperationUpdate
	OperationVerify
	OperationPatch
)

func (this OperationKind) String() string {
	switch this {
	case OperationDownload:
		return "download"
	case OperationUpdate:
		return "update"
	case OperationVerify:
		return "verify"
	case OperationPatch:
		return "update_patch"
	default:
		return "unknown"
	}
}

// ProgressInfo counters are monotonically non-decreasing within one
// operation's lifetime.
type ProgressInfo struct {
	TotalSize     int64
	FinishedSize  int64
	TotalCount    int
	FinishedCount int
}

// ProgressCallback receives a snapshot of every operation's counters plus the
// kind that just advanced. It is invoked on every increment.
type ProgressCallback func(all map[OperationKind]ProgressInfo, active OperationKind)

// ProgressSink receives byte-level increments for a single operation kind.
// A nil sink is permitted wherever transfers should go unreported.
type ProgressSink interface {
	Advance(bytes int64)
}

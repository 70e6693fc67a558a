package core

import (
	"sync"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

// ProgressAggregator accumulates per-operation counters and notifies an
// external observer on every increment. Counters only ever grow within one
// operation's lifetime; Begin resets them for the next pass. Writes are
// serialized so the observer always sees a consistent snapshot even if a
// future caller introduces concurrent transfers.
type ProgressAggregator struct {
	mutex    sync.Mutex
	all      map[contracts.OperationKind]*contracts.ProgressInfo
	callback contracts.ProgressCallback
}

func NewProgressAggregator() *ProgressAggregator {
	return &ProgressAggregator{
		all: map[contracts.OperationKind]*contracts.ProgressInfo{
			contracts.OperationDownload: {},
			contracts.OperationUpdate:   {},
			contracts.OperationVerify:   {},
			contracts.OperationPatch:    {},
		},
	}
}

func (this *ProgressAggregator) SetCallback(callback contracts.ProgressCallback) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.callback = callback
}

// Begin zeroes the counters for one operation kind and records the totals
// computed over the resource list before the pass starts.
func (this *ProgressAggregator) Begin(kind contracts.OperationKind, totalSize int64, totalCount int) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	*this.all[kind] = contracts.ProgressInfo{TotalSize: totalSize, TotalCount: totalCount}
	this.notify(kind)
}

// Advance adds transferred (or satisfied-without-transfer) bytes.
func (this *ProgressAggregator) Advance(kind contracts.OperationKind, bytes int64) {
	if bytes <= 0 {
		return
	}
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.all[kind].FinishedSize += bytes
	this.notify(kind)
}

// FinishItem marks one resource complete.
func (this *ProgressAggregator) FinishItem(kind contracts.OperationKind) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.all[kind].FinishedCount++
	this.notify(kind)
}

func (this *ProgressAggregator) Snapshot() map[contracts.OperationKind]contracts.ProgressInfo {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.snapshot()
}

func (this *ProgressAggregator) Info(kind contracts.OperationKind) contracts.ProgressInfo {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return *this.all[kind]
}

// Sink binds one operation kind so byte-level producers need not know which
// pass they serve.
func (this *ProgressAggregator) Sink(kind contracts.OperationKind) contracts.ProgressSink {
	return &boundSink{aggregator: this, kind: kind}
}

func (this *ProgressAggregator) snapshot() map[contracts.OperationKind]contracts.ProgressInfo {
	snapshot := make(map[contracts.OperationKind]contracts.ProgressInfo, len(this.all))
	for kind, info := range this.all {
		snapshot[kind] = *info
	}
	return snapshot
}

func (this *ProgressAggregator) notify(active contracts.OperationKind) {
	if this.callback == nil {
		return
	}
	this.callback(this.snapshot(), active)
}

type boundSink struct {
	aggregator *ProgressAggregator
	kind       contracts.OperationKind
}

func (this *boundSink) Advance(bytes int64) {
	this.aggregator.Advance(this.kind, bytes)
}

package main

import (
	"github.com/cheggaaa/pb/v3"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

// consoleProgress renders the active operation's byte counters as a terminal
// progress bar, switching bars whenever the active operation kind changes.
type consoleProgress struct {
	bar    *pb.ProgressBar
	active contracts.OperationKind
}

func newConsoleProgress() *consoleProgress {
	return &consoleProgress{active: -1}
}

// Callback satisfies contracts.ProgressCallback. Increments arrive from a
// single writer per operation, already serialized by the aggregator.
func (this *consoleProgress) Callback(all map[contracts.OperationKind]contracts.ProgressInfo, active contracts.OperationKind) {
	info := all[active]
	if this.bar == nil || this.active != active {
		this.Finish()
		this.active = active
		this.bar = pb.New64(info.TotalSize)
		this.bar.Set(pb.Bytes, true)
		this.bar.Set("prefix", active.String()+" ")
		this.bar.Start()
	}
	this.bar.SetTotal(info.TotalSize)
	this.bar.SetCurrent(info.FinishedSize)
}

func (this *consoleProgress) Finish() {
	if this.bar != nil {
		this.bar.Finish()
		this.bar = nil
	}
}

package driver

// Stage tracks where a file is in the check pipeline.
type Stage uint8

const (
	// StageQueued means the file is waiting for a worker.
	StageQueued Stage = iota
	// StageChecking means evaluation is in flight.
	StageChecking
	// StageCached means the result was served from the disk cache.
	StageCached
	// StageDone means evaluation finished.
	StageDone
	// StageFailed means the file could not be loaded or parsed.
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageQueued:
		return "queued"
	case StageChecking:
		return "checking"
	case StageCached:
		return "cached"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// Event reports per-file progress during a directory check.
type Event struct {
	Path  string
	Stage Stage
	// Diagnostics carries the file's final count, valid for StageDone and
	// StageCached.
	Diagnostics int
}

func emit(ch chan<- Event, ev Event) {
	if ch != nil {
		ch <- ev
	}
}

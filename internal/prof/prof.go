// Package prof records CPU, heap, and runtime-trace profiles for a check
// run.
package prof

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Options names the profile outputs to record. Empty paths are skipped.
type Options struct {
	CPUPath   string
	MemPath   string
	TracePath string
}

// Session owns the open profile files for one run. Start it before plugin
// loading and Stop it after the last diagnostic is rendered, so the profiles
// cover loading and evaluation alike.
type Session struct {
	cpu     *os.File
	trace   *os.File
	memPath string
	done    bool
}

// Start enables every profiler named in opts. On error, profilers already
// started are stopped and no session is returned.
func Start(opts Options) (*Session, error) {
	s := &Session{}

	if opts.CPUPath != "" {
		f, err := os.Create(opts.CPUPath)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, err
		}
		s.cpu = f
	}

	if opts.TracePath != "" {
		f, err := os.Create(opts.TracePath)
		if err != nil {
			_ = s.Stop()
			return nil, err
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			_ = s.Stop()
			return nil, err
		}
		s.trace = f
	}

	// Set last: the heap snapshot belongs to a Stop after a full run, not to
	// a Start that failed halfway.
	s.memPath = opts.MemPath
	return s, nil
}

// Stop flushes and closes every active profiler and, when requested, writes
// the heap profile. Safe to call more than once; only the first call does
// work. Nil-receiver safe.
func (s *Session) Stop() error {
	if s == nil || s.done {
		return nil
	}
	s.done = true

	if s.trace != nil {
		trace.Stop()
		_ = s.trace.Close()
		s.trace = nil
	}
	if s.cpu != nil {
		pprof.StopCPUProfile()
		_ = s.cpu.Close()
		s.cpu = nil
	}
	if s.memPath != "" {
		return writeHeap(s.memPath)
	}
	return nil
}

func writeHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

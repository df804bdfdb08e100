package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStart_NoOptionsIsNoop(t *testing.T) {
	s, err := Start(Options{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestStart_HeapProfileWrittenOnStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem.prof")
	s, err := Start(Options{MemPath: path})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat heap profile: %v", err)
	}
	if st.Size() == 0 {
		t.Error("heap profile is empty")
	}
}

func TestStart_BadCPUPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "cpu.prof")
	if _, err := Start(Options{CPUPath: path}); err == nil {
		t.Fatal("expected error for uncreatable cpu profile path")
	}
}

func TestStop_NilSession(t *testing.T) {
	var s *Session
	if err := s.Stop(); err != nil {
		t.Errorf("nil Stop: %v", err)
	}
}

package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"sift/internal/diag"
	"sift/internal/source"
)

// Digest is a SHA-256 content hash used for cache keys.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Current schema version - increment when cachedFile format changes
const resultCacheSchemaVersion uint16 = 1

// ResultCache stores per-file check results on disk, keyed by the plugin-set
// digest combined with the target file's content hash. A hit skips plugin
// evaluation entirely.
// Thread-safe for concurrent access.
type ResultCache struct {
	mu  sync.RWMutex
	dir string
}

// cachedFile is the serialized per-file payload.
type cachedFile struct {
	Schema      uint16
	Diagnostics []cachedDiagnostic
}

// cachedDiagnostic flattens a diagnostic for storage. Spans are stored as
// byte offsets plus a Positioned flag; the FileID is rebound on read since
// IDs are only meaningful within one FileSet.
type cachedDiagnostic struct {
	Severity   uint8
	Category   string
	Message    string
	Start      uint32
	End        uint32
	Positioned bool
}

// OpenResultCache initializes and returns a result cache at the standard
// location ($XDG_CACHE_HOME/<app> or ~/.cache/<app>).
func OpenResultCache(app string) (*ResultCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ResultCache{dir: dir}, nil
}

// FileKey combines the plugin-set digest with a file content hash into one
// cache key. Either input changing invalidates the entry.
func FileKey(setDigest Digest, fileHash [32]byte) Digest {
	h := sha256.New()
	h.Write(setDigest[:])
	h.Write(fileHash[:])
	var key Digest
	h.Sum(key[:0])
	return key
}

func (c *ResultCache) pathFor(key Digest) string {
	// Subdirectory "results" keeps the cache root tidy for manual cleanup.
	return filepath.Join(c.dir, "results", key.String()+".mp")
}

// Put serializes and writes a file's diagnostics to the cache.
func (c *ResultCache) Put(key Digest, diags []diag.Diagnostic) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := cachedFile{
		Schema:      resultCacheSchemaVersion,
		Diagnostics: make([]cachedDiagnostic, len(diags)),
	}
	for i, d := range diags {
		payload.Diagnostics[i] = cachedDiagnostic{
			Severity:   uint8(d.Severity),
			Category:   string(d.Category),
			Message:    d.Message,
			Start:      d.Primary.Start,
			End:        d.Primary.End,
			Positioned: d.HasPosition(),
		}
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if removeErr := os.Remove(f.Name()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			fmt.Printf("failed to remove temp file: %v", removeErr)
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads a file's cached diagnostics. Spans are rebound to fileID. A
// missing entry or a schema mismatch reports (nil, false, nil).
func (c *ResultCache) Get(key Digest, fileID source.FileID) ([]diag.Diagnostic, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			panic(closeErr)
		}
	}()

	var payload cachedFile
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != resultCacheSchemaVersion {
		return nil, false, nil
	}

	diags := make([]diag.Diagnostic, len(payload.Diagnostics))
	for i, cd := range payload.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Category: diag.Category(cd.Category),
			Message:  cd.Message,
		}
		if cd.Positioned {
			d.Primary = source.Span{File: fileID, Start: cd.Start, End: cd.End}
		}
		diags[i] = d
	}
	return diags, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *ResultCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(c.dir), 0o755)
}

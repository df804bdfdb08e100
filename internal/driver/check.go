package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"sift/internal/diag"
	"sift/internal/engine"
	"sift/internal/source"
)

// Parser turns a loaded file into the parse representation plugins match
// against. The built-in rx engine implements it; so would any real grammar
// front end.
type Parser interface {
	Parse(f *source.File) (any, error)
}

// Options configures a check run.
type Options struct {
	// MaxDiagnostics bounds every per-file Bag.
	MaxDiagnostics int
	// Jobs caps parallel workers for directory runs (0 = GOMAXPROCS).
	Jobs int
	// Extensions filters directory walks (".js", ".txt", ...). Empty means
	// every regular file is a target.
	Extensions []string
	// Cache, when non-nil, serves and stores per-file results.
	Cache *ResultCache
	// Events, when non-nil, receives per-file progress.
	Events chan<- Event
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path      string
	FileID    source.FileID
	Bag       *diag.Bag
	FromCache bool
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}

// CheckFile loads one target into fset and evaluates every plugin against
// it, in set order. All evaluation diagnostics land in the result Bag;
// load and parse failures become diagnostics too, never process errors.
func CheckFile(fset *source.FileSet, parser Parser, set *PluginSet, path string, opts Options) FileResult {
	bag := diag.NewBag(opts.maxDiagnostics())

	fileID, err := fset.Load(path)
	if err != nil {
		bag.Add(diag.NewError(diag.CategoryIO, source.Span{}, "failed to load file: "+err.Error()))
		return FileResult{Path: path, Bag: bag}
	}

	result := checkLoaded(fset.Get(fileID), parser, set, opts)
	result.Path = path
	return result
}

// checkLoaded evaluates the plugin set against an already loaded file.
func checkLoaded(f *source.File, parser Parser, set *PluginSet, opts Options) FileResult {
	bag := diag.NewBag(opts.maxDiagnostics())
	result := FileResult{Path: f.Path, FileID: f.ID, Bag: bag}

	if opts.Cache != nil {
		key := FileKey(set.Digest(), f.Hash)
		if diags, ok, err := opts.Cache.Get(key, f.ID); err == nil && ok {
			bag.AddAll(diags)
			result.FromCache = true
			return result
		}
	}

	parse, err := parser.Parse(f)
	if err != nil {
		bag.Add(diag.NewError(diag.CategoryParse, source.Span{}, "failed to parse file: "+err.Error()))
		return result
	}

	target := engine.TargetFile{Parse: parse, Path: f.Path}
	var all []diag.Diagnostic
	for _, p := range set.Plugins {
		diags := p.Evaluate(target)
		all = append(all, diags...)
		bag.AddAll(diags)
	}

	if opts.Cache != nil {
		key := FileKey(set.Digest(), f.Hash)
		// Best effort: a failed cache write never fails the check.
		_ = opts.Cache.Put(key, all)
	}

	return result
}

// ListTargetFiles returns the sorted list of check targets under dir,
// filtered by extension.
func ListTargetFiles(dir string, extensions []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if len(extensions) == 0 {
			files = append(files, path)
			return nil
		}
		for _, ext := range extensions {
			if strings.HasSuffix(path, ext) {
				files = append(files, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Deterministic order regardless of walk internals.
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every target under dir in parallel. Results come back in
// the same deterministic order as ListTargetFiles; per-file state never
// crosses workers, so no locking beyond the errgroup is needed.
func CheckDir(ctx context.Context, dir string, parser Parser, set *PluginSet, opts Options) (*source.FileSet, []FileResult, error) {
	files, err := ListTargetFiles(dir, opts.Extensions)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Preload sequentially: FileSet mutation is not concurrency-safe, and
	// reading files is cheap next to evaluation.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		emit(opts.Events, Event{Path: path, Stage: StageQueued})
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				if loadErr, hadError := loadErrors[path]; hadError {
					bag := diag.NewBag(opts.maxDiagnostics())
					bag.Add(diag.NewError(diag.CategoryIO, source.Span{}, "failed to load file: "+loadErr.Error()))
					results[i] = FileResult{Path: path, Bag: bag}
					emit(opts.Events, Event{Path: path, Stage: StageFailed})
					return nil
				}

				emit(opts.Events, Event{Path: path, Stage: StageChecking})
				result := checkLoaded(fileSet.Get(fileIDs[path]), parser, set, opts)
				result.Path = path
				results[i] = result

				stage := StageDone
				if result.FromCache {
					stage = StageCached
				}
				emit(opts.Events, Event{Path: path, Stage: stage, Diagnostics: result.Bag.Len()})
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, fmt.Errorf("check aborted: %w", err)
	}

	return fileSet, results, nil
}

package driver

import (
	"crypto/sha256"
	"hash"

	"sift/internal/engine"
	"sift/internal/plugin"
)

// PluginSet is an ordered collection of loaded plugins plus a digest over
// their sources, used as part of result-cache keys.
type PluginSet struct {
	Plugins []*plugin.Plugin
	digest  Digest
}

// Digest returns the content digest of the set (sources + target language).
func (s *PluginSet) Digest() Digest {
	return s.digest
}

// Len returns the number of plugins in the set.
func (s *PluginSet) Len() int {
	return len(s.Plugins)
}

// hashingFS wraps the loader's filesystem collaborator and folds everything
// it reads into a running digest.
type hashingFS struct {
	inner plugin.FS
	h     hash.Hash
}

func (f *hashingFS) ReadFileFromPath(path string) ([]byte, error) {
	content, err := f.inner.ReadFileFromPath(path)
	if err != nil {
		return nil, err
	}
	f.h.Write([]byte(path))
	f.h.Write([]byte{0})
	f.h.Write(content)
	f.h.Write([]byte{0})
	return content, nil
}

// LoadPlugins loads every rule file in order. Loading stops at the first
// failure; a broken plugin fails the whole set, matching load-time error
// semantics (run-time failures, by contrast, stay confined to one file).
func LoadPlugins(fsys plugin.FS, compiler engine.Compiler, paths []string, lang engine.TargetLanguage) (*PluginSet, error) {
	hfs := &hashingFS{inner: fsys, h: sha256.New()}
	hfs.h.Write([]byte(lang))
	hfs.h.Write([]byte{0})

	set := &PluginSet{Plugins: make([]*plugin.Plugin, 0, len(paths))}
	for _, path := range paths {
		p, err := plugin.Load(hfs, compiler, path, lang)
		if err != nil {
			return nil, err
		}
		set.Plugins = append(set.Plugins, p)
	}

	hfs.h.Sum(set.digest[:0])
	return set, nil
}

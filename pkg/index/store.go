package index

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/sorcerai/packfs/pkg/sandbox"
)

// Store persists the index as a JSON file under the sandbox's state
// directory. It is owned by a single engine instance; cross-process safety
// is not claimed, and debugging readers must tolerate a stale snapshot.
type Store struct {
	fs billy.Filesystem
}

// NewStore wraps a sandbox-rooted filesystem.
func NewStore(fs billy.Filesystem) *Store {
	return &Store{fs: fs}
}

// Path returns the index file path relative to the sandbox root.
func (s *Store) Path() string {
	return sandbox.IndexDirName + "/" + FileName
}

// Load reads and validates the persisted index. A missing, unreadable, or
// version-mismatched file returns ok=false so the caller can rebuild;
// corruption is never surfaced to engine callers. Non-sequence keyword-map
// values are healed to empty sequences during decoding.
func (s *Store) Load() (*Index, bool) {
	data, err := util.ReadFile(s.fs, s.Path())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("index: unreadable index file, rebuilding: %v", err)
		}
		return nil, false
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		log.Printf("index: corrupted index file, rebuilding: %v", err)
		return nil, false
	}
	if idx.Version != Version {
		log.Printf("index: version %q does not match %q, rebuilding", idx.Version, Version)
		return nil, false
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]*Entry)
	}
	if idx.KeywordMap == nil {
		idx.KeywordMap = make(KeywordMap)
	}
	return &idx, true
}

// Save serializes the index with human-readable indentation, writing to a
// sibling temp file and renaming over the target. Atomicity beyond a single
// process is not required. LastUpdated is stamped here so a successful save
// always records when the index last reconciled.
func (s *Store) Save(idx *Index) error {
	if err := s.fs.MkdirAll(sandbox.IndexDirName, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	idx.LastUpdated = time.Now()
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	tmp, err := util.TempFile(s.fs, sandbox.IndexDirName, FileName+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp index file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("close index: %w", err)
	}
	if err := s.fs.Rename(tmpName, s.Path()); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("replace index: %w", err)
	}
	return nil
}

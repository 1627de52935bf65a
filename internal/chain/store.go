package chain

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rowanvale/chainlog/internal/output"
)

// Storage layout inside the store directory:
//
//	chain-<chainId>.json                    one document per chain
//	commits/<commitSha>/chain-<chainId>.json duplicate, when commitSha set
//	commit-index.json                        { "<sha>": ["<chainId>", ...] }
const (
	chainFilePrefix = "chain-"
	chainFileSuffix = ".json"
	commitsDirName  = "commits"
	commitIndexName = "commit-index.json"
)

// Store persists chain documents as JSON files in a single directory,
// and maintains a secondary commit-SHA index mapping commits to the
// chains saved against them.
//
// The store assumes a single process with sequential access. The commit
// index is updated with a read-modify-write of the whole file, so two
// processes saving concurrently can lose one update (last write wins).
type Store struct {
	dir  string
	repo Repository
	now  func() time.Time
}

// NewStore creates a Store rooted at dir, stamping repo into the
// metadata of every saved document. The directory is created lazily on
// first save.
func NewStore(dir string, repo Repository) *Store {
	return &Store{dir: dir, repo: repo, now: time.Now}
}

// Dir returns the storage directory path.
func (s *Store) Dir() string {
	return s.dir
}

// chainPath returns the primary file path for a chain ID.
func (s *Store) chainPath(chainID string) string {
	return filepath.Join(s.dir, chainFilePrefix+chainID+chainFileSuffix)
}

// commitChainPath returns the commit-scoped duplicate path.
func (s *Store) commitChainPath(sha, chainID string) string {
	return filepath.Join(s.dir, commitsDirName, sha, chainFilePrefix+chainID+chainFileSuffix)
}

// indexPath returns the commit index file path.
func (s *Store) indexPath() string {
	return filepath.Join(s.dir, commitIndexName)
}

// Save wraps the chain in a document with freshly computed metrics and
// fixed version/repository metadata, then writes it to
// chain-<chainId>.json. When the chain carries a commit SHA, a duplicate
// copy is written under commits/<sha>/ and the chain ID is added to the
// commit index (deduplicated).
//
// Write failures propagate: a failed save means lost data and must be
// observed by the caller.
func (s *Store) Save(c *PromptChain) (*Document, error) {
	doc := &Document{
		Metadata: Metadata{
			Version:    DocumentVersion,
			Created:    s.now().UTC(),
			Repository: s.repo,
			Metrics:    ComputeMetrics(c),
		},
		Chain: *c,
	}

	data, err := doc.ToJSON()
	if err != nil {
		return nil, output.NewSystemError("failed to serialize chain: " + err.Error())
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create storage directory", err)
	}

	if err := atomicWrite(s.chainPath(c.ChainID), data); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to write chain file", err)
	}

	if c.CommitSHA != "" {
		commitDir := filepath.Join(s.dir, commitsDirName, c.CommitSHA)
		if err := os.MkdirAll(commitDir, 0o755); err != nil {
			return nil, output.NewSystemErrorWithCause("failed to create commit directory", err)
		}
		if err := atomicWrite(s.commitChainPath(c.CommitSHA, c.ChainID), data); err != nil {
			return nil, output.NewSystemErrorWithCause("failed to write commit-scoped chain file", err)
		}
		if err := s.indexChain(c.CommitSHA, c.ChainID); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// Load reads and parses the document for a chain ID.
// Returns nil when the file is absent or unparseable: a missing chain is
// an ordinary outcome, not an error.
func (s *Store) Load(chainID string) *Document {
	data, err := os.ReadFile(s.chainPath(chainID))
	if err != nil {
		return nil
	}

	doc, err := DocumentFromJSON(data)
	if err != nil {
		return nil
	}
	return doc
}

// ListAll enumerates stored chain IDs by scanning the storage directory
// for files matching the chain-file naming convention, sorted for
// deterministic display. Returns an empty slice when the directory does
// not exist or cannot be read.
func (s *Store) ListAll() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return []string{}
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, chainFilePrefix) || !strings.HasSuffix(name, chainFileSuffix) {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, chainFilePrefix), chainFileSuffix)
		if id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ListByCommit returns the chain IDs recorded for a commit SHA in index
// insertion order, or an empty slice when the SHA is unknown.
func (s *Store) ListByCommit(sha string) []string {
	ids := s.readIndex()[sha]
	if ids == nil {
		return []string{}
	}
	return ids
}

// LoadByCommit loads every document recorded for a commit SHA,
// preserving index order and skipping entries that fail to load.
func (s *Store) LoadByCommit(sha string) []*Document {
	docs := []*Document{}
	for _, id := range s.ListByCommit(sha) {
		if doc := s.Load(id); doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs
}

// readIndex parses the commit index file.
// A missing or unparseable index reads as empty.
func (s *Store) readIndex() map[string][]string {
	data, err := os.ReadFile(s.indexPath())
	if err != nil {
		return map[string][]string{}
	}

	index := map[string][]string{}
	if err := json.Unmarshal(data, &index); err != nil {
		return map[string][]string{}
	}
	return index
}

// indexChain adds a chain ID to the index entry for a commit SHA.
// Read-modify-write of the whole index file; IDs are deduplicated and
// existing order preserved.
func (s *Store) indexChain(sha, chainID string) error {
	index := s.readIndex()
	if !slices.Contains(index[sha], chainID) {
		index[sha] = append(index[sha], chainID)
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return output.NewSystemError("failed to serialize commit index: " + err.Error())
	}

	if err := atomicWrite(s.indexPath(), data); err != nil {
		return output.NewSystemErrorWithCause("failed to write commit index", err)
	}
	return nil
}

// atomicWrite writes data to path using write-to-temp-then-rename.
// The temp file is created in the same directory as path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

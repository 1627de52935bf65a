package git

import (
	"bytes"
	"os"
	"strconv"
	"strings"

	"github.com/rowanvale/chainlog/internal/output"
)

// ChangedFile is one changed-but-uncommitted file in the working tree,
// with its porcelain status letter.
type ChangedFile struct {
	Path   string
	Status byte // 'A', 'M', 'D', 'R', '?' ...
}

// CommitFile is one file changed by a commit, with numstat counts.
// Binary files report zero counts and Binary set.
type CommitFile struct {
	Path       string
	Insertions int
	Deletions  int
	Binary     bool
}

// WorkingTreeFiles returns the changed-but-uncommitted files in the
// working tree, from `git status --porcelain`. The status letter is the
// index status when set, otherwise the worktree status; untracked files
// report '?'.
func WorkingTreeFiles() ([]ChangedFile, error) {
	out, err := Run("status", "--porcelain")
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to get working tree status", err)
	}

	var files []ChangedFile
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}

		status := line[0]
		if status == ' ' {
			status = line[1]
		}

		path := strings.TrimSpace(line[3:])
		// Renames are listed as "old -> new"; keep the new path.
		if idx := strings.LastIndex(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}
		path = strings.Trim(path, `"`)

		files = append(files, ChangedFile{Path: path, Status: status})
	}

	return files, nil
}

// DiffWorkingTree returns the raw unified-diff text for a single file
// against HEAD. Untracked files have no diff against HEAD and yield an
// empty string.
func DiffWorkingTree(path string) (string, error) {
	if _, err := Run("ls-files", "--error-unmatch", path); err != nil {
		return "", nil
	}

	out, err := Run("diff", "HEAD", "--", path)
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to diff "+path, err)
	}
	return out, nil
}

// DiffCommitFile returns the raw unified-diff text for a single file
// within a commit.
func DiffCommitFile(sha, path string) (string, error) {
	out, err := Run("show", "--format=", sha, "--", path)
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to show "+path+" at "+sha, err)
	}
	return out, nil
}

// CommitFiles returns the files changed by a commit with per-file
// insertion/deletion counts, from `git show --numstat`. Binary files
// appear with "-" counts in numstat output and are flagged.
func CommitFiles(sha string) ([]CommitFile, error) {
	out, err := Run("show", "--numstat", "--format=", sha)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to get files for commit "+sha, err)
	}

	var files []CommitFile
	for _, line := range strings.Split(out, "\n") {
		file, ok := parseNumstatLine(line)
		if ok {
			files = append(files, file)
		}
	}

	return files, nil
}

// parseNumstatLine parses one "insertions\tdeletions\tpath" numstat line.
func parseNumstatLine(line string) (CommitFile, bool) {
	fields := strings.SplitN(strings.TrimSpace(line), "\t", 3)
	if len(fields) < 3 {
		return CommitFile{}, false
	}

	file := CommitFile{Path: fields[2]}
	if fields[0] == "-" || fields[1] == "-" {
		file.Binary = true
		return file, true
	}

	insertions, err := strconv.Atoi(fields[0])
	if err != nil {
		return CommitFile{}, false
	}
	deletions, err := strconv.Atoi(fields[1])
	if err != nil {
		return CommitFile{}, false
	}

	file.Insertions = insertions
	file.Deletions = deletions
	return file, true
}

// CountFileLines returns the number of lines in a working tree file,
// used to size untracked files that have no diff against HEAD.
// Returns 0 for unreadable files.
func CountFileLines(path string) int {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return 0
	}

	lines := bytes.Count(data, []byte("\n"))
	if data[len(data)-1] != '\n' {
		lines++
	}
	return lines
}

package chain

import "strings"

// CountDiffLines derives added/deleted line counts from raw unified-diff
// text. A line counts as added when it starts with "+" but not "+++", and
// as deleted when it starts with "-" but not "---".
//
// This is a textual heuristic, not a diff parser: it miscounts when diff
// content itself contains lines starting with "+++" or "---" that are not
// headers, and it knows nothing about context lines, binary markers, or
// renames. The behavior is load-bearing: stored documents were produced
// with exactly these rules, so the imprecision must be preserved.
//
// Malformed or empty input yields {0, 0}, never an error.
func CountDiffLines(diff string) (added, deleted int) {
	if diff == "" {
		return 0, 0
	}

	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// file header markers
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			deleted++
		}
	}

	return added, deleted
}

// ClassifyChange maps a numeric insertion/deletion summary to a change
// type, for sources that supply counts without raw diff text (git numstat).
// Binary files always classify as modified regardless of counts.
func ClassifyChange(insertions, deletions int, binary bool) ChangeType {
	if binary {
		return ChangeModified
	}

	switch {
	case insertions > 0 && deletions == 0:
		return ChangeAdded
	case deletions > 0 && insertions == 0:
		return ChangeDeleted
	default:
		return ChangeModified
	}
}

// FileDiffFromPatch builds a FileDiff from raw unified-diff text,
// deriving the line counts from the patch. An empty patch yields zero
// counts; use a FileDiff literal when counts come from elsewhere.
func FileDiffFromPatch(path string, changeType ChangeType, patch string) FileDiff {
	added, deleted := CountDiffLines(patch)
	return FileDiff{
		FilePath:     path,
		ChangeType:   changeType,
		Diff:         patch,
		LinesAdded:   added,
		LinesDeleted: deleted,
	}
}

package services

import (
	"regexp"
	"strings"

	"github.com/renato0307/shellbox/internal/domain"
)

const (
	guidancePullFirst = "The remote has changes you do not have. Pull first, then push again."
	guidanceConflict  = "Merge conflict. Resolve the conflicted files, stage them and commit."
	guidanceAuth      = "Authentication failed. Check that your GitHub token is valid and can access this repository (shellbox auth login)."
)

var (
	rejectedMarkers = []string{"non-fast-forward", "[rejected]", "rejected", "fetch first", "tip of your current branch is behind"}
	conflictMarkers = []string{
		"merge conflict",
		"conflict (",
		"automatic merge failed",
		"fix conflicts",
		"unresolved conflict",
		"unmerged files",
	}
	authMarkers     = []string{
		"authentication failed",
		"permission denied",
		"denied to ",
		"could not read username",
		"invalid username or password",
		"access denied",
		"returned error: 403",
		"returned error: 401",
	}

	conflictFileRes = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^CONFLICT \([^)]*\): Merge conflict in (.+)$`),
		regexp.MustCompile(`(?m)^CONFLICT \([^)]*\): (\S+) deleted in `),
	}
)

// ClassifyGitError turns a failed git operation into actionable guidance.
// Markers are matched case-insensitively in priority order: rejected push,
// merge conflict, authentication. Anything else keeps the raw message.
func ClassifyGitError(operation string, err error) *domain.GitOperationError {
	text := err.Error() + "\n" + domain.ErrorDetail(err)
	lower := strings.ToLower(text)

	guidance := err.Error()
	switch {
	case containsAny(lower, rejectedMarkers):
		guidance = guidancePullFirst
	case containsAny(lower, conflictMarkers):
		guidance = guidanceConflict
		if files := ConflictedFiles(text); len(files) > 0 {
			guidance = "Merge conflict in " + strings.Join(files, ", ") + ". Resolve the conflicts, stage the files and commit."
		}
	case containsAny(lower, authMarkers):
		guidance = guidanceAuth
	}

	return &domain.GitOperationError{
		Cause:     err,
		Guidance:  guidance,
		Operation: operation,
	}
}

// ConflictedFiles extracts the paths listed in CONFLICT lines, in order and without duplicates
func ConflictedFiles(output string) []string {
	seen := make(map[string]bool)
	var files []string
	for _, re := range conflictFileRes {
		for _, m := range re.FindAllStringSubmatch(output, -1) {
			file := strings.TrimSpace(m[1])
			if file != "" && !seen[file] {
				seen[file] = true
				files = append(files, file)
			}
		}
	}
	return files
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

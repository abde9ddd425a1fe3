package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/renato0307/shellbox/internal/domain"
)

var (
	branchLineRe = regexp.MustCompile(`^## (.+?)(?:\.\.\.(\S+))?(?: \[(.+)\])?$`)
	aheadRe      = regexp.MustCompile(`ahead (\d+)`)
	behindRe     = regexp.MustCompile(`behind (\d+)`)
)

// ParseStatus parses `git status --porcelain=v1 --branch` output
func ParseStatus(output string) *domain.GitStatus {
	status := &domain.GitStatus{
		Staged:    []domain.FileChange{},
		Unstaged:  []domain.FileChange{},
		Untracked: []string{},
	}
	staged := make(map[string]bool)
	unstaged := make(map[string]bool)
	untracked := make(map[string]bool)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "## ") {
			parseBranchLine(line, status)
			continue
		}

		if len(line) < 4 || line[2] != ' ' {
			continue
		}

		x, y := line[0], line[1]
		rest := line[3:]

		if x == '?' && y == '?' {
			p := unquotePath(rest)
			if !untracked[p] {
				untracked[p] = true
				status.Untracked = append(status.Untracked, p)
			}
			continue
		}
		if x == '!' {
			continue
		}

		p := entryPath(x, y, rest)

		if x != ' ' {
			if !staged[p] {
				staged[p] = true
				status.Staged = append(status.Staged, domain.FileChange{Kind: changeKind(x), Path: p})
			}
		}
		if y != ' ' {
			if !unstaged[p] {
				unstaged[p] = true
				status.Unstaged = append(status.Unstaged, domain.FileChange{Kind: changeKind(y), Path: p})
			}
		}
	}

	return status
}

func parseBranchLine(line string, status *domain.GitStatus) {
	head := strings.TrimPrefix(line, "## ")
	for _, prefix := range []string{"No commits yet on ", "Initial commit on "} {
		if strings.HasPrefix(head, prefix) {
			status.Branch = strings.TrimPrefix(head, prefix)
			return
		}
	}

	m := branchLineRe.FindStringSubmatch(line)
	if m == nil {
		status.Branch = head
		return
	}
	status.Branch = m[1]

	if m[3] == "" {
		return
	}
	if a := aheadRe.FindStringSubmatch(m[3]); a != nil {
		status.Ahead, _ = strconv.Atoi(a[1])
	}
	if b := behindRe.FindStringSubmatch(m[3]); b != nil {
		status.Behind, _ = strconv.Atoi(b[1])
	}
}

// entryPath returns the path of a status entry. The " -> " separator is only
// meaningful for rename and copy codes; any other entry keeps its path literally.
func entryPath(x, y byte, rest string) string {
	if !isRenameCode(x) && !isRenameCode(y) {
		return unquotePath(rest)
	}

	if strings.HasPrefix(rest, `"`) {
		if end := closingQuote(rest); end > 0 {
			remainder := rest[end+1:]
			if strings.HasPrefix(remainder, " -> ") {
				return unquotePath(remainder[len(" -> "):])
			}
		}
		return unquotePath(rest)
	}

	if idx := strings.Index(rest, " -> "); idx >= 0 {
		return unquotePath(rest[idx+len(" -> "):])
	}
	return unquotePath(rest)
}

func isRenameCode(c byte) bool {
	return c == 'R' || c == 'C'
}

func changeKind(c byte) domain.ChangeKind {
	switch c {
	case 'A':
		return domain.ChangeAdded
	case 'C':
		return domain.ChangeCopied
	case 'D':
		return domain.ChangeDeleted
	case 'R':
		return domain.ChangeRenamed
	default:
		// M, T (type change) and U (unmerged) all read as modified
		return domain.ChangeModified
	}
}

// closingQuote returns the index of the quote ending the C-quoted string starting at s[0]
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// unquotePath decodes git's C-style quoting: surrounding double quotes,
// backslash escapes and \ooo octal bytes.
func unquotePath(p string) string {
	if len(p) < 2 || p[0] != '"' || p[len(p)-1] != '"' {
		return p
	}
	inner := p[1 : len(p)-1]

	var out []byte
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' || i+1 >= len(inner) {
			out = append(out, c)
			continue
		}

		i++
		switch e := inner[i]; e {
		case 'a':
			out = append(out, '\a')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'v':
			out = append(out, '\v')
		case '0', '1', '2', '3':
			if i+2 < len(inner) && isOctal(inner[i+1]) && isOctal(inner[i+2]) {
				out = append(out, (e-'0')<<6|(inner[i+1]-'0')<<3|(inner[i+2]-'0'))
				i += 2
			} else {
				out = append(out, '\\', e)
			}
		default:
			// \" and \\ and anything unknown map to the escaped byte
			out = append(out, e)
		}
	}
	return string(out)
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}

package domain

// ChangeKind is the kind of change git reports for a path
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeCopied   ChangeKind = "copied"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeModified ChangeKind = "modified"
	ChangeRenamed  ChangeKind = "renamed"
)

// FileChange is one entry of the staged or unstaged list
type FileChange struct {
	Kind ChangeKind
	Path string
}

// GitStatus is rebuilt from `git status --porcelain=v1 --branch` on every query
type GitStatus struct {
	Ahead     int
	Behind    int
	Branch    string
	Staged    []FileChange
	Unstaged  []FileChange
	Untracked []string
}

// IsClean reports whether the working tree has no changes at all
func (s *GitStatus) IsClean() bool {
	return len(s.Staged) == 0 && len(s.Unstaged) == 0 && len(s.Untracked) == 0
}

// GitBranch is a local branch
type GitBranch struct {
	IsCurrent bool
	Name      string
}

// GitCommit is one entry of the commit log
type GitCommit struct {
	Author       string
	Hash         string
	Message      string
	RelativeDate string
	ShortHash    string
}

// GitStash is one entry of the stash stack
type GitStash struct {
	Hash    string
	Index   int
	Message string
}

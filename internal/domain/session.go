package domain

import (
	"strings"
	"time"
)

// Session binds one provisioned container to one cloned repository
type Session struct {
	ContainerName string
	CreatedAt     time.Time
	ID            string
	LastActiveAt  time.Time
	RepoURL       string
}

// Repository is the subset of a GitHub repository needed to start a session
type Repository struct {
	CloneURL string
	FullName string
	HTMLURL  string
	ID       int64
	Name     string
	Private  bool
}

// Organization is a GitHub organization the user belongs to
type Organization struct {
	ID    int64
	Login string
	Name  string
}

// RepoName returns the last path component of a repository URL without the .git suffix.
// Used for language hints when choosing a base image.
func RepoName(repoURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimRight(repoURL, "/"), ".git")
	if idx := strings.LastIndexAny(trimmed, "/:"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

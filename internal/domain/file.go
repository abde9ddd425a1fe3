package domain

import (
	"sort"
	"strings"
)

// FileItem is one directory entry inside the workspace
type FileItem struct {
	Children    []FileItem
	ID          string
	IsDirectory bool
	Name        string
	Path        string
}

// SortFileItems orders directories first, then by case-insensitive name
func SortFileItems(items []FileItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsDirectory != items[j].IsDirectory {
			return items[i].IsDirectory
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}

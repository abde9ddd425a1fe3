// Package shellquote builds POSIX shell-safe words.
package shellquote

import "strings"

// Quote wraps s in single quotes, escaping embedded single quotes as '"'"'
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// Join quotes every word and joins them with spaces
func Join(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = Quote(w)
	}
	return strings.Join(quoted, " ")
}

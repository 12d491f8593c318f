package repl

import (
	"sort"
	"strings"
)

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			"connect", "disconnect", "send", "status",
			"append", "append none", "append LF", "append CR", "append CRLF",
			"prepend",
			"history", "help", "exit", "quit",
		},
	}
}

// Complete returns completion suggestions for the given prefix.
// Matching is case-insensitive so "append lf" finds "append LF".
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	lower := strings.ToLower(prefix)
	for _, cmd := range c.commands {
		if strings.HasPrefix(strings.ToLower(cmd), lower) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Suggest returns top-level commands that start with word, for
// "did you mean" hints on unknown input.
func (c *Completer) Suggest(word string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, cmd := range c.Complete(word) {
		name, _, _ := strings.Cut(cmd, " ")
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

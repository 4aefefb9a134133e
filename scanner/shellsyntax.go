package scanner

import (
	"bytes"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// shellExtensions lists the file extensions scanFile treats as real shell
// source, eligible for AST-based comment detection instead of the
// line-local regex heuristic in patterns.Skippable.
var shellExtensions = map[string]bool{
	".sh": true, ".bash": true, ".zsh": true,
}

// isShellFile reports whether base's extension (or a bare module init
// hook name) marks it as shell source.
func isShellFile(base string) bool {
	if shellExtensions[filepath.Ext(base)] {
		return true
	}
	return strings.HasPrefix(base, "init.") || base == "init"
}

// commentLines parses src with the shell syntax tree and returns the set
// of source line numbers mvdan.cc/sh/v3 classifies as comments. Unlike
// patterns.IsCommentOnly, this understands heredocs and quoting, so a "#"
// inside a heredoc body or a quoted string is never mistaken for a
// comment marker. Returns ok=false if src does not parse as shell (the
// caller falls back to the line-local heuristic for that file).
func commentLines(src []byte) (lines map[int]bool, ok bool) {
	f, err := syntax.NewParser(syntax.KeepComments(true)).Parse(bytes.NewReader(src), "")
	if err != nil {
		return nil, false
	}
	lines = make(map[int]bool, len(f.Comments))
	for _, c := range f.Comments {
		lines[int(c.Hash.Line())] = true
	}
	return lines, true
}

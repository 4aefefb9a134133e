package audit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadStream returns every JSON-Lines record from the named stream
// (sessions, commands, or operations), reading files in lexical path order
// (date directories oldest first, files within one by name), filtered to
// lines containing the filter substring (empty filter matches everything).
// Used by the `audit` CLI command; writes themselves never read this path.
func (l *Logger) ReadStream(stream, filter string) ([]string, error) {
	dir := filepath.Join(l.root, stream)
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".log") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("audit: walk %s: %w", dir, err)
	}

	var lines []string
	for _, f := range files {
		fh, err := os.Open(f)
		if err != nil {
			continue
		}
		sc := bufio.NewScanner(fh)
		sc.Buffer(make([]byte, 64*1024), 1<<20)
		for sc.Scan() {
			line := sc.Text()
			if filter == "" || strings.Contains(line, filter) {
				lines = append(lines, line)
			}
		}
		fh.Close()
	}
	return lines, nil
}

package module

import (
	"os"
	"sort"
)

// readDirSorted lists dir's entries in a stable, name-sorted order so
// discovery order (and therefore DiscoveryIndex) does not depend on
// filesystem iteration order.
func readDirSorted(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

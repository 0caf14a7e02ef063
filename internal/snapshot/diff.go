package snapshot

import "sort"

// ChangeSet lists the paths that differ between two snapshots.
// Each slice is sorted.
type ChangeSet struct {
	Added    []string
	Modified []string
	Deleted  []string
}

// Empty reports whether no path was added, modified or deleted.
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Modified) == 0 && len(c.Deleted) == 0
}

// Total returns the number of changed paths across all categories.
func (c ChangeSet) Total() int {
	return len(c.Added) + len(c.Modified) + len(c.Deleted)
}

// Compare diffs old against new. A path present in both is modified only
// when its (mtime, size) pair differs; file contents are never inspected.
func Compare(old, new Snapshot) ChangeSet {
	var cs ChangeSet

	for path, entry := range new {
		prev, ok := old[path]
		switch {
		case !ok:
			cs.Added = append(cs.Added, path)
		case prev != entry:
			cs.Modified = append(cs.Modified, path)
		}
	}
	for path := range old {
		if _, ok := new[path]; !ok {
			cs.Deleted = append(cs.Deleted, path)
		}
	}

	sort.Strings(cs.Added)
	sort.Strings(cs.Modified)
	sort.Strings(cs.Deleted)
	return cs
}

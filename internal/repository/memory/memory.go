// Package memory implements the repository interfaces with in-process slices.
//
// State lives for the lifetime of the process. Each repository guards its
// data with a sync.RWMutex: one writer at a time, and readers always get
// copies taken under the lock.
package memory

import (
	"cmp"
	"slices"

	"github.com/sakif/blog-api/internal/model"
)

// newestFirst orders posts by CreatedAt descending. Equal timestamps keep
// insertion order (lower ID first), so posts created in the same instant,
// like the seed posts, list in the order they were written.
func newestFirst(a, b model.Post) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func sortNewestFirst(posts []model.Post) {
	slices.SortStableFunc(posts, newestFirst)
}

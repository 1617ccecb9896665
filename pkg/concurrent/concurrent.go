package concurrent

import (
	"github.com/zeusync/htmlbox/pkg/sequence"
	"golang.org/x/sync/errgroup"
)

// Limited runs action for each element of the iterator with at most limit
// goroutines at once. A non-positive limit means no limit.
// It waits for all goroutines to finish and returns the first error encountered.
func Limited[T any](i *sequence.Iterator[T], limit int, action func(T) error) error {
	var group errgroup.Group
	if limit > 0 {
		group.SetLimit(limit)
	}
	for value := range i.Seq() {
		group.Go(func() error {
			return action(value)
		})
	}
	return group.Wait()
}

// SPDX-License-Identifier: Apache-2.0

package service

import (
	"sort"

	"github.com/docvault/docvault/models"
)

// ScheduleOperations orders operations for dispatch: priority descending,
// then queuedAt ascending (FIFO within a priority band). The sort is stable
// and applies no type-based reordering; callers that need delete-before-
// orphan semantics enqueue deletes with elevated priority. The input slice
// is not mutated.
func ScheduleOperations(ops []models.QueuedOperation) []models.QueuedOperation {
	out := make([]models.QueuedOperation, len(ops))
	copy(out, ops)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].QueuedAt.Before(out[j].QueuedAt)
	})

	return out
}

// SPDX-License-Identifier: Apache-2.0

package service

import (
	"sort"

	"github.com/docvault/docvault/models"
)

type consolidationService struct{}

// NewConsolidationService constructs the stateless consolidation engine.
func NewConsolidationService() ConsolidationService {
	return &consolidationService{}
}

// docGroup is the per-document working state of one consolidation pass: at
// most one surviving document-level operation plus the file-level operations,
// which target distinct file slots and are never merged with each other.
type docGroup struct {
	docOp   *models.QueuedOperation
	fileOps []models.QueuedOperation
	deleted bool
}

// Consolidate implements [ConsolidationService].
//
// Per document, operations are folded in queuedAt order:
//   - delete replaces the surviving document-level operation outright and
//     clears the pending file operations; it is terminal for the pass, so
//     anything queued after it for the same document is superseded as well
//   - upload/update merge into one operation: the newer payload wins, the
//     type stays upload if any folded operation was an upload (the remote
//     object may not exist yet), priority becomes the max, queuedAt keeps
//     the earliest slot so the merged operation retains its dispatch turn
//   - fileUpload/fileDelete are preserved verbatim
//
// Running the pass twice produces no further reduction.
func (c *consolidationService) Consolidate(ops []models.QueuedOperation) ([]models.QueuedOperation, models.ConsolidationResult) {
	result := models.ConsolidationResult{
		OriginalCount:        len(ops),
		PerDocumentReduction: make(map[string]int),
	}
	if len(ops) == 0 {
		result.PerDocumentReduction = nil
		return nil, result
	}

	sorted := make([]models.QueuedOperation, len(ops))
	copy(sorted, ops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].QueuedAt.Before(sorted[j].QueuedAt)
	})

	groups := make(map[string]*docGroup)
	var docOrder []string

	for _, op := range sorted {
		g, ok := groups[op.DocumentID]
		if !ok {
			g = &docGroup{}
			groups[op.DocumentID] = g
			docOrder = append(docOrder, op.DocumentID)
		}
		g.fold(op)
	}

	var out []models.QueuedOperation
	for _, documentID := range docOrder {
		g := groups[documentID]
		count := 0
		if g.docOp != nil {
			out = append(out, *g.docOp)
			count++
		}
		out = append(out, g.fileOps...)
		count += len(g.fileOps)

		perDoc := 0
		for _, op := range sorted {
			if op.DocumentID == documentID {
				perDoc++
			}
		}
		if reduced := perDoc - count; reduced > 0 {
			result.PerDocumentReduction[documentID] = reduced
		}
	}

	if len(result.PerDocumentReduction) == 0 {
		result.PerDocumentReduction = nil
	}
	result.FinalCount = len(out)
	return out, result
}

func (g *docGroup) fold(op models.QueuedOperation) {
	if g.deleted {
		// A pending delete supersedes any later queued change for the
		// document this pass.
		return
	}

	switch op.Type {
	case models.OperationDelete:
		deleteOp := op
		g.docOp = &deleteOp
		g.fileOps = nil
		g.deleted = true

	case models.OperationUpload, models.OperationUpdate:
		if g.docOp == nil {
			merged := op
			g.docOp = &merged
			return
		}
		g.docOp.OperationData = op.OperationData
		g.docOp.SyncID = op.SyncID
		if op.Type == models.OperationUpload || g.docOp.Type == models.OperationUpload {
			g.docOp.Type = models.OperationUpload
		} else {
			g.docOp.Type = models.OperationUpdate
		}
		if op.Priority > g.docOp.Priority {
			g.docOp.Priority = op.Priority
		}

	case models.OperationFileUpload, models.OperationFileDelete:
		g.fileOps = append(g.fileOps, op)
	}
}

// SPDX-License-Identifier: Apache-2.0

package service

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/docvault/docvault/models"
)

// ResolutionMode selects how a version conflict is settled.
type ResolutionMode string

const (
	ResolveKeepLocal  ResolutionMode = "keepLocal"
	ResolveKeepRemote ResolutionMode = "keepRemote"
	ResolveMerge      ResolutionMode = "merge"
)

// Resolution is the outcome of resolving one conflict. Document is the
// winning snapshot; SubmitToRemote means the winner must be written to the
// remote store, AdoptLocally means the winner replaces the local copy.
// keepLocal and merge set both (the submitted document also becomes the
// local truth); keepRemote only adopts.
type Resolution struct {
	Document       models.Document
	SubmitToRemote bool
	AdoptLocally   bool
}

type conflictResolver struct{}

// NewConflictResolver constructs the deterministic conflict resolution
// policy. It is stateless; all inputs arrive per call.
func NewConflictResolver() *conflictResolver {
	return &conflictResolver{}
}

// Resolve settles a version conflict between the local snapshot the queued
// operation was based on and the remote snapshot returned by the gateway.
//
// A remote version below the local base violates version monotonicity and is
// rejected with [ErrVersionRegression]; the caller flags the document for
// manual resolution.
func (r *conflictResolver) Resolve(local, remote models.Document, mode ResolutionMode) (Resolution, error) {
	if remote.Version < local.Version {
		return Resolution{}, fmt.Errorf("%w: document %s remote=%d local=%d",
			ErrVersionRegression, local.SyncID, remote.Version, local.Version)
	}

	switch mode {
	case ResolveKeepLocal:
		winner := local
		winner.Version = remote.Version + 1
		winner.SyncState = models.SyncStatePending
		return Resolution{Document: winner, SubmitToRemote: true, AdoptLocally: true}, nil

	case ResolveKeepRemote:
		winner := remote
		winner.SyncState = models.SyncStateSynced
		return Resolution{Document: winner, AdoptLocally: true}, nil

	case ResolveMerge:
		winner, err := mergeDocuments(local, remote)
		if err != nil {
			return Resolution{}, fmt.Errorf("merge conflict for %s: %w", local.SyncID, err)
		}
		winner.Version = remote.Version + 1
		winner.SyncState = models.SyncStatePending
		return Resolution{Document: winner, SubmitToRemote: true, AdoptLocally: true}, nil

	default:
		return Resolution{}, fmt.Errorf("%w: %q", ErrUnknownResolution, mode)
	}
}

// mergeDocuments combines both sides field-wise: the more recently modified
// side wins overlapping fields, while fields it left empty are filled from
// the other side.
func mergeDocuments(local, remote models.Document) (models.Document, error) {
	newer, older := local, remote
	if remote.LastModified.After(local.LastModified) {
		newer, older = remote, local
	}

	merged := newer
	if err := mergo.Merge(&merged, older); err != nil {
		return models.Document{}, err
	}

	if newer.LastModified.After(merged.LastModified) {
		merged.LastModified = newer.LastModified
	}
	return merged, nil
}

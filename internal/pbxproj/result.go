package pbxproj

import (
	"log/slog"
	"strconv"
)

// maxRehash bounds the collision-rehash loop in assign. The loop is
// expected to run at most once in practice; this cap only guards against
// an implementation bug turning it into an infinite loop.
const maxRehash = 32

// resultStore maps old object identifiers to their canonical path and new
// identifier, and maintains the inverse new-id -> path map that guarantees
// no two distinct paths are ever assigned the same new identifier.
type resultStore struct {
	byOldID   map[string]Entry
	pathByNew map[string]string
	toRemove  []string
	warnings  Warnings
}

func newResultStore() *resultStore {
	return &resultStore{
		byOldID:   make(map[string]Entry),
		pathByNew: make(map[string]string),
	}
}

// assign records a new identifier for oldID at the given canonical path,
// rehashing the candidate identifier until it no longer collides with a
// different path already holding it. Returns the identifier finally used.
func (r *resultStore) assign(oldID, path, newID, isa string) string {
	if old, ok := r.byOldID[oldID]; ok {
		delete(r.pathByNew, old.NewID)
	}

	rehashes := 0
	for {
		existing, collides := r.pathByNew[newID]
		if !collides || existing == path {
			break
		}
		rehashes++
		if rehashes > maxRehash {
			panic("pbxproj: identifier rehash loop exceeded " + strconv.Itoa(maxRehash) + " iterations")
		}
		slog.Debug("hash conflict, rehashing", "old_id", oldID, "candidate", newID)
		newID = Hash(newID)
	}

	r.pathByNew[newID] = path
	r.byOldID[oldID] = Entry{Path: path, NewID: newID, Isa: isa}
	return newID
}

// setRemote records a bare new-id mapping for a remote identifier owned by
// a sibling project, without a canonical path.
// It bypasses the inverse-map injectivity bookkeeping in assign: remote
// ids are not candidates for local collision rehashing.
func (r *resultStore) setRemote(id, newID string) {
	r.byOldID[id] = Entry{NewID: newID}
}

// get returns the entry for id, if any.
func (r *resultStore) get(id string) (Entry, bool) {
	e, ok := r.byOldID[id]
	return e, ok
}

// markRemoved queues id for removal from the rewritten file.
func (r *resultStore) markRemoved(id string) {
	r.toRemove = append(r.toRemove, id)
}

// isRemoved reports whether id has been queued for removal.
func (r *resultStore) isRemoved(id string) bool {
	for _, rid := range r.toRemove {
		if rid == id {
			return true
		}
	}
	return false
}

// warn appends a non-fatal diagnostic.
func (r *resultStore) warn(format string, args ...any) {
	r.warnings.add(format, args...)
}

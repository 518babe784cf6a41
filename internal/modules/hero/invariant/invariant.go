// Package invariant computes the is_active assignment of a variant collection
// after a write. It is the single place where "at most one variant is active"
// and "the active variant cannot be deleted" are enforced; the server usecases
// and the in-memory repository both go through it.
package invariant

import (
	"fmt"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
)

// Result is the collection after an operation. Deactivated lists the keys of
// records other than the target whose is_active flipped to false.
type Result struct {
	Collection  []hero.Variant
	Target      *hero.Variant
	Deactivated []string
}

// SetActive marks key as the only active record. Activating the record that
// is already the only active one changes nothing.
func SetActive(coll []hero.Variant, key string) (Result, error) {
	idx := hero.FindByKey(coll, key)
	if idx < 0 {
		return Result{}, fmt.Errorf("%w: %q", hero.ErrNotFound, key)
	}
	out := cloneAll(coll)
	out[idx].IsActive = true
	deactivated := deactivateOthers(out, idx)
	return Result{Collection: out, Target: &out[idx], Deactivated: deactivated}, nil
}

// Create appends rec. When rec is active every other record is deactivated in
// the same step; otherwise nothing else changes.
func Create(coll []hero.Variant, rec hero.Variant) (Result, error) {
	if hero.FindByKey(coll, rec.VariantKey) >= 0 {
		return Result{}, fmt.Errorf("%w: %q", hero.ErrDuplicateKey, rec.VariantKey)
	}
	out := cloneAll(coll)
	out = append(out, rec.Clone())
	idx := len(out) - 1
	var deactivated []string
	if out[idx].IsActive {
		deactivated = deactivateOthers(out, idx)
	}
	return Result{Collection: out, Target: &out[idx], Deactivated: deactivated}, nil
}

// Update applies patch to key. The variant key is never changed. Others are
// deactivated only when the patch sets is_active to true.
func Update(coll []hero.Variant, key string, patch hero.Patch) (Result, error) {
	idx := hero.FindByKey(coll, key)
	if idx < 0 {
		return Result{}, fmt.Errorf("%w: %q", hero.ErrNotFound, key)
	}
	out := cloneAll(coll)
	updated := patch.Apply(out[idx])
	updated.VariantKey = coll[idx].VariantKey
	out[idx] = updated
	var deactivated []string
	if patch.ActivatesRecord() {
		deactivated = deactivateOthers(out, idx)
	}
	return Result{Collection: out, Target: &out[idx], Deactivated: deactivated}, nil
}

// Delete removes key unless it is the active record.
func Delete(coll []hero.Variant, key string) (Result, error) {
	idx := hero.FindByKey(coll, key)
	if idx < 0 {
		return Result{}, fmt.Errorf("%w: %q", hero.ErrNotFound, key)
	}
	if coll[idx].IsActive {
		return Result{}, fmt.Errorf("%w: %q", hero.ErrProtectedActiveRecord, key)
	}
	removed := coll[idx].Clone()
	out := make([]hero.Variant, 0, len(coll)-1)
	for i := range coll {
		if i != idx {
			out = append(out, coll[i].Clone())
		}
	}
	return Result{Collection: out, Target: &removed}, nil
}

// CanDelete reports whether Delete(coll, key) would succeed.
func CanDelete(coll []hero.Variant, key string) error {
	idx := hero.FindByKey(coll, key)
	if idx < 0 {
		return fmt.Errorf("%w: %q", hero.ErrNotFound, key)
	}
	if coll[idx].IsActive {
		return fmt.Errorf("%w: %q", hero.ErrProtectedActiveRecord, key)
	}
	return nil
}

// ActiveCount counts active records in coll.
func ActiveCount(coll []hero.Variant) int {
	n := 0
	for i := range coll {
		if coll[i].IsActive {
			n++
		}
	}
	return n
}

// Check verifies that at most one record is active and keys are unique.
func Check(coll []hero.Variant) error {
	if n := ActiveCount(coll); n > 1 {
		return fmt.Errorf("%d variants are active", n)
	}
	seen := make(map[string]struct{}, len(coll))
	for i := range coll {
		if _, ok := seen[coll[i].VariantKey]; ok {
			return fmt.Errorf("%w: %q", hero.ErrDuplicateKey, coll[i].VariantKey)
		}
		seen[coll[i].VariantKey] = struct{}{}
	}
	return nil
}

func deactivateOthers(coll []hero.Variant, keep int) []string {
	var flipped []string
	for i := range coll {
		if i == keep || !coll[i].IsActive {
			continue
		}
		coll[i].IsActive = false
		flipped = append(flipped, coll[i].VariantKey)
	}
	return flipped
}

func cloneAll(coll []hero.Variant) []hero.Variant {
	out := make([]hero.Variant, len(coll), len(coll)+1)
	for i := range coll {
		out[i] = coll[i].Clone()
	}
	return out
}

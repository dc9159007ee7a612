package services

import (
	"errors"
	"time"

	errs "ops-portal.com/ops-portal/internal/errors"
	"ops-portal.com/ops-portal/internal/policy"
	repository "ops-portal.com/ops-portal/internal/repositories"
)

// Clock returns the current instant. Production uses SystemClock; tests pin it.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

func nowUTC(clock Clock) time.Time {
	if clock == nil {
		return SystemClock()
	}
	return clock().UTC()
}

func authorize(op policy.Operation, actor policy.Actor) (policy.Decision, error) {
	decision := policy.Decide(op, actor.Role)
	if decision == policy.Denied {
		return decision, errs.ErrOperationForbidden
	}
	return decision, nil
}

// storeError turns repository sentinels into the error taxonomy. notFound is
// the specific error reported for a missing record.
func storeError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrOptimisticLock):
		return errs.ErrOptimisticLock
	case errors.Is(err, repository.ErrDuplicateKey):
		return errs.Conflictf("record already exists")
	default:
		return err
	}
}

func strPtr(s string) *string {
	return &s
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

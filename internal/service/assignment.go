package service

import (
	"context"
	"errors"
	"math/rand"

	"github.com/powergrid-it/helpdesk-service/internal/repository"
)

// ErrNoAssigneeAvailable signals an empty candidate pool (single-user
// system). Callers create the ticket unassigned instead of failing.
var ErrNoAssigneeAvailable = errors.New("no assignee available")

// AssignmentPolicy selects an assignee for a newly created ticket:
// uniform-random choice over all users except the creator.
type AssignmentPolicy struct {
	users repository.UserRepository

	// pick returns an index in [0,n); overridable in tests.
	pick func(n int) int
}

// NewAssignmentPolicy constructs the policy.
func NewAssignmentPolicy(users repository.UserRepository) *AssignmentPolicy {
	return &AssignmentPolicy{users: users, pick: rand.Intn}
}

// SelectAssignee returns the chosen user id, or ErrNoAssigneeAvailable
// when the creator is the only user.
func (p *AssignmentPolicy) SelectAssignee(ctx context.Context, creatorID string) (string, error) {
	pool, err := p.users.ListExcluding(ctx, creatorID)
	if err != nil {
		return "", err
	}
	if len(pool) == 0 {
		return "", ErrNoAssigneeAvailable
	}
	return pool[p.pick(len(pool))].ID, nil
}

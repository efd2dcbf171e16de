package service

import (
	"github.com/google/uuid"

	apperrors "github.com/powergrid-it/helpdesk-service/pkg/util"
)

// checkID normalizes malformed identifiers to NotFound before they reach
// the store, so a garbage id never surfaces as a server error.
func checkID(resource, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return nil
}

package database

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound indicates the referenced user or edge does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates caller-supplied data failed a precondition.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyFollowing indicates the follow edge already exists.
	ErrAlreadyFollowing = errors.New("already following")
)

// DuplicateError is returned when a unique constraint is violated. Field
// names the colliding column so the boundary layer can build a
// field-scoped error payload.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

// IsDuplicate checks if an error is a unique-key violation and returns
// the colliding field.
func IsDuplicate(err error) (string, bool) {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Field, true
	}
	return "", false
}

// uniqueViolation is the Postgres error code for unique constraint
// violations.
const uniqueViolation = "23505"

// constraintFields maps Postgres constraint names to the domain field
// they protect.
var constraintFields = map[string]string{
	"users_username_key":        "username",
	"users_email_key":           "email",
	"users_id_key":              "id",
	"user_profiles_user_id_key": "user_id",
}

// translateConstraint converts driver-level constraint violations into
// domain errors. Any other error is returned unchanged so callers can
// wrap it as an infrastructure failure without leaking driver text to
// external clients.
func translateConstraint(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != uniqueViolation {
		return err
	}

	if pqErr.Constraint == "follows_pkey" {
		return ErrAlreadyFollowing
	}
	if field, ok := constraintFields[pqErr.Constraint]; ok {
		return &DuplicateError{Field: field}
	}
	return &DuplicateError{Field: pqErr.Constraint}
}

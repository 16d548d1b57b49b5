package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/svaldez/socialnet-api/internal/matching"
	"github.com/svaldez/socialnet-api/internal/models"
)

// UserRepository handles user and profile database operations
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userViewColumns = `id, username, name, email, profile_picture, created_at`

// Create inserts a new user with a generated public id. Colliding
// username or email surfaces as a DuplicateError naming the field; the
// single-statement insert leaves no partial row behind on failure.
func (r *UserRepository) Create(ctx context.Context, input models.NewUserInput) (*models.User, error) {
	user := &models.User{
		ID:       uuid.New().String(),
		Username: input.Username,
		Name:     input.Name,
		Email:    input.Email,
	}

	query := `
		INSERT INTO users (id, username, name, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING internal_id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.ID,
		user.Username,
		user.Name,
		user.Email,
		time.Now(),
	).Scan(&user.InternalID, &user.CreatedAt)

	if err != nil {
		if translated := translateConstraint(err); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves the merged user+profile view. Profile fields are
// null when no profile row exists.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.UserDetailView, error) {
	detail := &models.UserDetailView{}
	query := `
		SELECT u.id, u.username, u.name, u.email, u.profile_picture, u.created_at,
		       p.birthdate, p.location_lat, p.location_long, p.interests, p.description
		FROM users u
		LEFT JOIN user_profiles p ON p.user_id = u.id
		WHERE u.id = $1
	`

	err := r.db.GetContext(ctx, detail, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return detail, nil
}

// List returns all users in the store's default order. Order is not a
// contract callers may rely on.
func (r *UserRepository) List(ctx context.Context) ([]models.UserView, error) {
	var users []models.UserView
	query := `SELECT ` + userViewColumns + ` FROM users`

	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SearchByUsernamePrefix returns users whose username starts with the
// given prefix, case-insensitive.
func (r *UserRepository) SearchByUsernamePrefix(ctx context.Context, prefix string) ([]models.UserView, error) {
	var users []models.UserView
	query := `SELECT ` + userViewColumns + ` FROM users WHERE username ILIKE $1`

	if err := r.db.SelectContext(ctx, &users, query, escapeLike(prefix)+"%"); err != nil {
		return nil, fmt.Errorf("failed to search users by prefix: %w", err)
	}
	return users, nil
}

// Search returns users whose username or name contains the substring,
// case-insensitive.
func (r *UserRepository) Search(ctx context.Context, substring string) ([]models.UserView, error) {
	var users []models.UserView
	pattern := "%" + escapeLike(substring) + "%"
	query := `
		SELECT ` + userViewColumns + `
		FROM users
		WHERE username ILIKE $1 OR name ILIKE $1
	`

	if err := r.db.SelectContext(ctx, &users, query, pattern); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// EmailExists reports whether any user has the given email.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// EmailByUsername returns the email of the user with the given username.
func (r *UserRepository) EmailByUsername(ctx context.Context, username string) (string, error) {
	var email string
	query := `SELECT email FROM users WHERE username = $1`

	err := r.db.GetContext(ctx, &email, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get email by username: %w", err)
	}
	return email, nil
}

// UpdateIdentity re-keys the user's public id to the externally issued
// value, sets the profile picture and attaches or overwrites the profile
// with the supplied birthdate and coordinates. The re-key and the
// profile upsert run in one transaction; the FKs cascade the new id to
// the profile and edge tables.
func (r *UserRepository) UpdateIdentity(ctx context.Context, id string, input models.IdentityInput) (*models.UserDetailView, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var internalID int64
	rekey := `
		UPDATE users
		SET id = $2, profile_picture = $3
		WHERE id = $1
		RETURNING internal_id
	`
	err = tx.QueryRowContext(ctx, rekey, id, input.ExternalID, input.ProfilePicture).Scan(&internalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if translated := translateConstraint(err); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to re-key user: %w", err)
	}

	upsert := `
		INSERT INTO user_profiles (user_id, birthdate, location_lat, location_long)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET birthdate = EXCLUDED.birthdate,
		    location_lat = EXCLUDED.location_lat,
		    location_long = EXCLUDED.location_long
	`
	if _, err := tx.ExecContext(ctx, upsert, input.ExternalID, input.Birthdate, input.LocationLat, input.LocationLong); err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit identity update: %w", err)
	}

	return r.GetByID(ctx, input.ExternalID)
}

// UpdateProfileFields applies a sparse update: only non-nil, non-empty
// fields overwrite stored values. Interests are canonicalized to the
// delimited form before storage.
func (r *UserRepository) UpdateProfileFields(ctx context.Context, id string, input models.ProfileUpdateInput) (*models.UserDetailView, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var internalID int64
	err = tx.QueryRowContext(ctx, `SELECT internal_id FROM users WHERE id = $1`, id).Scan(&internalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	userSet := []string{}
	userArgs := []any{id}
	argIndex := 2

	if present(input.Name) {
		userSet = append(userSet, fmt.Sprintf("name = $%d", argIndex))
		userArgs = append(userArgs, *input.Name)
		argIndex++
	}
	if present(input.ProfilePicture) {
		userSet = append(userSet, fmt.Sprintf("profile_picture = $%d", argIndex))
		userArgs = append(userArgs, *input.ProfilePicture)
		argIndex++
	}
	if len(userSet) > 0 {
		query := "UPDATE users SET " + strings.Join(userSet, ", ") + " WHERE id = $1"
		if _, err := tx.ExecContext(ctx, query, userArgs...); err != nil {
			return nil, fmt.Errorf("failed to update user fields: %w", err)
		}
	}

	profileSet := []string{}
	profileArgs := []any{id}
	argIndex = 2

	if present(input.Birthdate) {
		profileSet = append(profileSet, fmt.Sprintf("birthdate = $%d", argIndex))
		profileArgs = append(profileArgs, *input.Birthdate)
		argIndex++
	}
	if present(input.Interests) {
		profileSet = append(profileSet, fmt.Sprintf("interests = $%d", argIndex))
		profileArgs = append(profileArgs, matching.CanonicalizeInterests(*input.Interests))
		argIndex++
	}
	if present(input.Description) {
		profileSet = append(profileSet, fmt.Sprintf("description = $%d", argIndex))
		profileArgs = append(profileArgs, *input.Description)
		argIndex++
	}
	if len(profileSet) > 0 {
		ensure := `INSERT INTO user_profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`
		if _, err := tx.ExecContext(ctx, ensure, id); err != nil {
			return nil, fmt.Errorf("failed to ensure profile row: %w", err)
		}

		query := "UPDATE user_profiles SET " + strings.Join(profileSet, ", ") + " WHERE user_id = $1"
		if _, err := tx.ExecContext(ctx, query, profileArgs...); err != nil {
			return nil, fmt.Errorf("failed to update profile fields: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit profile update: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByUsernames bulk-fetches users by username, interests included.
// Missing usernames are silently omitted.
func (r *UserRepository) GetByUsernames(ctx context.Context, usernames []string) ([]models.MatchView, error) {
	return r.bulkFetch(ctx, "u.username", usernames)
}

// GetByIDs bulk-fetches users by public id, interests included. Missing
// ids are silently omitted.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]models.MatchView, error) {
	return r.bulkFetch(ctx, "u.id", ids)
}

func (r *UserRepository) bulkFetch(ctx context.Context, column string, keys []string) ([]models.MatchView, error) {
	if len(keys) == 0 {
		return []models.MatchView{}, nil
	}

	var users []models.MatchView
	query := `
		SELECT u.id, u.username, u.name, u.email, u.profile_picture, u.created_at,
		       p.location_lat, p.location_long, p.interests
		FROM users u
		LEFT JOIN user_profiles p ON p.user_id = u.id
		WHERE ` + column + ` = ANY($1)
	`

	if err := r.db.SelectContext(ctx, &users, query, pq.Array(keys)); err != nil {
		return nil, fmt.Errorf("failed to bulk fetch users: %w", err)
	}
	return users, nil
}

// present reports whether a sparse-update field carries a value. Empty
// strings count as absent, matching the partial-update contract.
func present(s *string) bool {
	return s != nil && *s != ""
}

// escapeLike escapes LIKE metacharacters in user-supplied search input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/svaldez/socialnet-api/internal/matching"
	"github.com/svaldez/socialnet-api/internal/models"
)

// DiscoveryRepository serves proximity and interest matching. Both
// matchers load candidate rows and compute the match in process: the
// table sizes here make a full scan acceptable and keep the distance
// and token logic testable.
type DiscoveryRepository struct {
	db *DB
}

// NewDiscoveryRepository creates a new discovery repository
func NewDiscoveryRepository(db *DB) *DiscoveryRepository {
	return &DiscoveryRepository{db: db}
}

// DefaultNearRadiusKM is the proximity search radius when the caller
// does not supply one.
const DefaultNearRadiusKM = 10.0

// NearUsers returns every other user with stored coordinates within
// radiusKM great-circle kilometers of the subject. The boundary is
// inclusive. Users without coordinates are excluded, not errored; the
// subject itself must have coordinates.
func (r *DiscoveryRepository) NearUsers(ctx context.Context, userID string, radiusKM float64) ([]models.MatchView, error) {
	var subject struct {
		LocationLat  *float64 `db:"location_lat"`
		LocationLong *float64 `db:"location_long"`
	}
	subjectQuery := `
		SELECT p.location_lat, p.location_long
		FROM users u
		LEFT JOIN user_profiles p ON p.user_id = u.id
		WHERE u.id = $1
	`

	err := r.db.GetContext(ctx, &subject, subjectQuery, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subject location: %w", err)
	}
	if subject.LocationLat == nil || subject.LocationLong == nil {
		return nil, fmt.Errorf("%w: user has no stored coordinates", ErrInvalidInput)
	}

	var candidates []models.MatchView
	candidateQuery := `
		SELECT u.id, u.username, u.name, u.email, u.profile_picture, u.created_at,
		       p.location_lat, p.location_long, p.interests
		FROM users u
		JOIN user_profiles p ON p.user_id = u.id
		WHERE u.id <> $1
		  AND p.location_lat IS NOT NULL
		  AND p.location_long IS NOT NULL
	`

	if err := r.db.SelectContext(ctx, &candidates, candidateQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to load location candidates: %w", err)
	}

	near := []models.MatchView{}
	for _, c := range candidates {
		if matching.WithinRadius(*subject.LocationLat, *subject.LocationLong, *c.LocationLat, *c.LocationLong, radiusKM) {
			near = append(near, c)
		}
	}
	return near, nil
}

// CommonInterests returns every other user sharing at least one
// token-exact interest tag with the subject, each user appearing once.
// A subject with no interests yields an empty result, not an error.
func (r *DiscoveryRepository) CommonInterests(ctx context.Context, userID string) ([]models.MatchView, error) {
	var interests sql.NullString
	subjectQuery := `
		SELECT p.interests
		FROM users u
		LEFT JOIN user_profiles p ON p.user_id = u.id
		WHERE u.id = $1
	`

	err := r.db.GetContext(ctx, &interests, subjectQuery, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subject interests: %w", err)
	}

	subject := matching.TagSet(matching.TokenizeInterests(interests.String))
	if len(subject) == 0 {
		return []models.MatchView{}, nil
	}

	var candidates []models.MatchView
	candidateQuery := `
		SELECT u.id, u.username, u.name, u.email, u.profile_picture, u.created_at,
		       p.location_lat, p.location_long, p.interests
		FROM users u
		JOIN user_profiles p ON p.user_id = u.id
		WHERE u.id <> $1
		  AND p.interests IS NOT NULL
		  AND p.interests <> ''
	`

	if err := r.db.SelectContext(ctx, &candidates, candidateQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to load interest candidates: %w", err)
	}

	matches := []models.MatchView{}
	for _, c := range candidates {
		if c.Interests != nil && matching.SharesInterest(subject, *c.Interests) {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

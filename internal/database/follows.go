package database

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/svaldez/socialnet-api/internal/models"
)

// FollowRepository handles the directed follow graph
type FollowRepository struct {
	db *DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Follow creates a directed edge from follower to followed. Both ids
// must resolve to existing users so a missing user surfaces as
// ErrNotFound instead of a constraint failure. A duplicate edge surfaces
// as ErrAlreadyFollowing.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID string) (*models.Follow, error) {
	if followerID == followedID {
		return nil, fmt.Errorf("%w: users cannot follow themselves", ErrInvalidInput)
	}

	if err := r.requireUsers(ctx, followerID, followedID); err != nil {
		return nil, err
	}

	edge := &models.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
	}

	query := `
		INSERT INTO follows (follower_id, followed_id, followed_at)
		VALUES ($1, $2, $3)
		RETURNING followed_at
	`

	err := r.db.QueryRowContext(ctx, query, followerID, followedID, time.Now()).Scan(&edge.FollowedAt)
	if err != nil {
		if translated := translateConstraint(err); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("failed to create follow: %w", err)
	}

	return edge, nil
}

// Unfollow removes the single matching edge. ErrNotFound if no such edge
// exists.
func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`

	result, err := r.db.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Followers returns the public view of every user following userID. An
// empty slice is a valid result; ErrNotFound only when userID itself
// does not resolve to a user.
func (r *FollowRepository) Followers(ctx context.Context, userID string) ([]models.UserView, error) {
	if err := r.requireUsers(ctx, userID); err != nil {
		return nil, err
	}

	var users []models.UserView
	query := `
		SELECT u.id, u.username, u.name, u.email, u.profile_picture, u.created_at
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followed_id = $1
		ORDER BY f.followed_at DESC
	`

	if err := r.db.SelectContext(ctx, &users, query, userID); err != nil {
		return nil, fmt.Errorf("failed to query followers: %w", err)
	}
	if users == nil {
		users = []models.UserView{}
	}
	return users, nil
}

// Following returns the public view of every user userID follows.
func (r *FollowRepository) Following(ctx context.Context, userID string) ([]models.UserView, error) {
	if err := r.requireUsers(ctx, userID); err != nil {
		return nil, err
	}

	var users []models.UserView
	query := `
		SELECT u.id, u.username, u.name, u.email, u.profile_picture, u.created_at
		FROM follows f
		JOIN users u ON u.id = f.followed_id
		WHERE f.follower_id = $1
		ORDER BY f.followed_at DESC
	`

	if err := r.db.SelectContext(ctx, &users, query, userID); err != nil {
		return nil, fmt.Errorf("failed to query following: %w", err)
	}
	if users == nil {
		users = []models.UserView{}
	}
	return users, nil
}

// requireUsers fails with ErrNotFound unless every given id resolves to
// a user.
func (r *FollowRepository) requireUsers(ctx context.Context, ids ...string) error {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE id = ANY($1)`

	if err := r.db.GetContext(ctx, &count, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to resolve users: %w", err)
	}
	if count != len(ids) {
		return ErrNotFound
	}
	return nil
}

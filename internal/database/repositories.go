package database

import (
	"context"

	"github.com/svaldez/socialnet-api/internal/models"
)

// UserRepositoryInterface defines the interface for user repository operations
// This interface enables better testability by allowing mock implementations
type UserRepositoryInterface interface {
	Create(ctx context.Context, input models.NewUserInput) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.UserDetailView, error)
	List(ctx context.Context) ([]models.UserView, error)
	SearchByUsernamePrefix(ctx context.Context, prefix string) ([]models.UserView, error)
	Search(ctx context.Context, substring string) ([]models.UserView, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	EmailByUsername(ctx context.Context, username string) (string, error)
	UpdateIdentity(ctx context.Context, id string, input models.IdentityInput) (*models.UserDetailView, error)
	UpdateProfileFields(ctx context.Context, id string, input models.ProfileUpdateInput) (*models.UserDetailView, error)
	GetByUsernames(ctx context.Context, usernames []string) ([]models.MatchView, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.MatchView, error)
}

// FollowRepositoryInterface defines the interface for follow graph operations
type FollowRepositoryInterface interface {
	Follow(ctx context.Context, followerID, followedID string) (*models.Follow, error)
	Unfollow(ctx context.Context, followerID, followedID string) error
	Followers(ctx context.Context, userID string) ([]models.UserView, error)
	Following(ctx context.Context, userID string) ([]models.UserView, error)
}

// DiscoveryRepositoryInterface defines the interface for proximity and interest matching
type DiscoveryRepositoryInterface interface {
	NearUsers(ctx context.Context, userID string, radiusKM float64) ([]models.MatchView, error)
	CommonInterests(ctx context.Context, userID string) ([]models.MatchView, error)
}

// Ensure concrete types implement the interfaces
var (
	_ UserRepositoryInterface      = (*UserRepository)(nil)
	_ FollowRepositoryInterface    = (*FollowRepository)(nil)
	_ DiscoveryRepositoryInterface = (*DiscoveryRepository)(nil)
)

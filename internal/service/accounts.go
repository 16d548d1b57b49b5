package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/svaldez/socialnet-api/internal/database"
	"github.com/svaldez/socialnet-api/internal/models"
	"github.com/svaldez/socialnet-api/internal/queue"
)

// AccountService orchestrates the stores behind the account lifecycle:
// register, complete registration (identity re-key), edit profile,
// follow graph and discovery. It validates inputs before touching a
// store and translates store failures into the domain taxonomy; it is
// the sole writer of users, profiles and edges.
type AccountService struct {
	users     database.UserRepositoryInterface
	follows   database.FollowRepositoryInterface
	discovery database.DiscoveryRepositoryInterface
	metrics   queue.MetricsPublisher
	logger    *zap.Logger
}

// NewAccountService creates the account service. metrics may be nil;
// metric emission is best-effort either way.
func NewAccountService(
	users database.UserRepositoryInterface,
	follows database.FollowRepositoryInterface,
	discovery database.DiscoveryRepositoryInterface,
	metrics queue.MetricsPublisher,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		follows:   follows,
		discovery: discovery,
		metrics:   metrics,
		logger:    logger,
	}
}

// CreateUser registers a new account with a generated public id.
func (s *AccountService) CreateUser(ctx context.Context, input models.NewUserInput) (*models.User, error) {
	if strings.TrimSpace(input.Username) == "" {
		return nil, fmt.Errorf("%w: username is required", database.ErrInvalidInput)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", database.ErrInvalidInput)
	}

	user, err := s.users.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user_created",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
	)
	s.emitMetric(queue.NewMetricEvent("user_created", user.ID))

	return user, nil
}

// GetUser returns the merged user+profile view.
func (s *AccountService) GetUser(ctx context.Context, id string) (*models.UserDetailView, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers returns all users.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.UserView, error) {
	return s.users.List(ctx)
}

// SearchUsers returns users whose username or name contains the
// substring. An empty substring is rejected rather than matching
// everyone.
func (s *AccountService) SearchUsers(ctx context.Context, substring string) ([]models.UserView, error) {
	if strings.TrimSpace(substring) == "" {
		return nil, fmt.Errorf("%w: search term is required", database.ErrInvalidInput)
	}
	return s.users.Search(ctx, substring)
}

// SearchUsersByPrefix returns users whose username starts with the
// prefix.
func (s *AccountService) SearchUsersByPrefix(ctx context.Context, prefix string) ([]models.UserView, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, fmt.Errorf("%w: prefix is required", database.ErrInvalidInput)
	}
	return s.users.SearchByUsernamePrefix(ctx, prefix)
}

// EmailExists reports whether an account with the email exists.
func (s *AccountService) EmailExists(ctx context.Context, email string) (*models.EmailCheck, error) {
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	return &models.EmailCheck{Exists: exists}, nil
}

// EmailByUsername returns the email registered for a username.
func (s *AccountService) EmailByUsername(ctx context.Context, username string) (string, error) {
	return s.users.EmailByUsername(ctx, username)
}

// CompleteRegistration re-keys the account to the externally issued id
// and attaches the initial profile. The old public id stops resolving
// once this succeeds, so the operation is logged with both ids.
func (s *AccountService) CompleteRegistration(ctx context.Context, id string, input models.IdentityInput) (*models.UserDetailView, error) {
	if strings.TrimSpace(input.ExternalID) == "" {
		return nil, fmt.Errorf("%w: external_id is required", database.ErrInvalidInput)
	}
	if err := validateCoordinates(input.LocationLat, input.LocationLong); err != nil {
		return nil, err
	}

	detail, err := s.users.UpdateIdentity(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user_rekeyed",
		zap.String("old_id", id),
		zap.String("new_id", input.ExternalID),
	)
	s.emitMetric(queue.NewMetricEvent("registration_completed", detail.ID))

	return detail, nil
}

// UpdateProfile applies a sparse profile edit; absent fields are left
// untouched.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, input models.ProfileUpdateInput) (*models.UserDetailView, error) {
	if input.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", database.ErrInvalidInput)
	}
	return s.users.UpdateProfileFields(ctx, id, input)
}

// UsersByUsernames bulk-fetches the matching subset of users by
// username.
func (s *AccountService) UsersByUsernames(ctx context.Context, usernames []string) ([]models.MatchView, error) {
	return s.users.GetByUsernames(ctx, usernames)
}

// UsersByIDs bulk-fetches the matching subset of users by public id.
func (s *AccountService) UsersByIDs(ctx context.Context, ids []string) ([]models.MatchView, error) {
	return s.users.GetByIDs(ctx, ids)
}

// Follow creates a follow edge.
func (s *AccountService) Follow(ctx context.Context, followerID, followedID string) (*models.Follow, error) {
	edge, err := s.follows.Follow(ctx, followerID, followedID)
	if err != nil {
		return nil, err
	}

	s.emitMetric(queue.NewMetricEvent("user_followed", followerID).WithLabel("followed_id", followedID))
	return edge, nil
}

// Unfollow removes a follow edge.
func (s *AccountService) Unfollow(ctx context.Context, followerID, followedID string) error {
	if err := s.follows.Unfollow(ctx, followerID, followedID); err != nil {
		return err
	}

	s.emitMetric(queue.NewMetricEvent("user_unfollowed", followerID).WithLabel("followed_id", followedID))
	return nil
}

// Followers returns everyone following the user.
func (s *AccountService) Followers(ctx context.Context, userID string) ([]models.UserView, error) {
	return s.follows.Followers(ctx, userID)
}

// Following returns everyone the user follows.
func (s *AccountService) Following(ctx context.Context, userID string) ([]models.UserView, error) {
	return s.follows.Following(ctx, userID)
}

// NearUsers returns users within radiusKM of the subject. A
// non-positive radius selects the default.
func (s *AccountService) NearUsers(ctx context.Context, userID string, radiusKM float64) ([]models.MatchView, error) {
	if radiusKM <= 0 {
		radiusKM = database.DefaultNearRadiusKM
	}
	return s.discovery.NearUsers(ctx, userID, radiusKM)
}

// CommonInterests returns users sharing at least one interest tag with
// the subject.
func (s *AccountService) CommonInterests(ctx context.Context, userID string) ([]models.MatchView, error) {
	return s.discovery.CommonInterests(ctx, userID)
}

// emitMetric publishes an observability event best-effort. Failures are
// logged and swallowed; they must never affect the caller's outcome.
func (s *AccountService) emitMetric(event *queue.MetricEvent) {
	if s.metrics == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.metrics.Publish(ctx, event); err != nil {
		s.logger.Warn("metric_publish_failed",
			zap.String("event", event.Name),
			zap.Error(err),
		)
	}
}

// validateCoordinates rejects out-of-range latitude/longitude values.
// Nil values are valid: coordinates are optional.
func validateCoordinates(lat, long *float64) error {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return fmt.Errorf("%w: latitude must be between -90 and 90", database.ErrInvalidInput)
	}
	if long != nil && (*long < -180 || *long > 180) {
		return fmt.Errorf("%w: longitude must be between -180 and 180", database.ErrInvalidInput)
	}
	return nil
}

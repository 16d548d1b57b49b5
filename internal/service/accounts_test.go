package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/svaldez/socialnet-api/internal/database"
	"github.com/svaldez/socialnet-api/internal/models"
	"github.com/svaldez/socialnet-api/internal/queue"
)

// Mock repositories for unit tests (configurable func fields, call tracking)

type mockUserRepo struct {
	t *testing.T

	createFunc              func(ctx context.Context, input models.NewUserInput) (*models.User, error)
	getByIDFunc             func(ctx context.Context, id string) (*models.UserDetailView, error)
	listFunc                func(ctx context.Context) ([]models.UserView, error)
	searchPrefixFunc        func(ctx context.Context, prefix string) ([]models.UserView, error)
	searchFunc              func(ctx context.Context, substring string) ([]models.UserView, error)
	emailExistsFunc         func(ctx context.Context, email string) (bool, error)
	emailByUsernameFunc     func(ctx context.Context, username string) (string, error)
	updateIdentityFunc      func(ctx context.Context, id string, input models.IdentityInput) (*models.UserDetailView, error)
	updateProfileFieldsFunc func(ctx context.Context, id string, input models.ProfileUpdateInput) (*models.UserDetailView, error)
	getByUsernamesFunc      func(ctx context.Context, usernames []string) ([]models.MatchView, error)
	getByIDsFunc            func(ctx context.Context, ids []string) ([]models.MatchView, error)

	createCalls []models.NewUserInput
}

func (m *mockUserRepo) Create(ctx context.Context, input models.NewUserInput) (*models.User, error) {
	m.createCalls = append(m.createCalls, input)
	if m.createFunc == nil {
		m.t.Fatal("Create called but not configured in test - mock requires explicit setup")
	}
	return m.createFunc(ctx, input)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.UserDetailView, error) {
	if m.getByIDFunc == nil {
		m.t.Fatal("GetByID called but not configured in test - mock requires explicit setup")
	}
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.UserView, error) {
	if m.listFunc == nil {
		m.t.Fatal("List called but not configured in test - mock requires explicit setup")
	}
	return m.listFunc(ctx)
}

func (m *mockUserRepo) SearchByUsernamePrefix(ctx context.Context, prefix string) ([]models.UserView, error) {
	if m.searchPrefixFunc == nil {
		m.t.Fatal("SearchByUsernamePrefix called but not configured in test - mock requires explicit setup")
	}
	return m.searchPrefixFunc(ctx, prefix)
}

func (m *mockUserRepo) Search(ctx context.Context, substring string) ([]models.UserView, error) {
	if m.searchFunc == nil {
		m.t.Fatal("Search called but not configured in test - mock requires explicit setup")
	}
	return m.searchFunc(ctx, substring)
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFunc == nil {
		m.t.Fatal("EmailExists called but not configured in test - mock requires explicit setup")
	}
	return m.emailExistsFunc(ctx, email)
}

func (m *mockUserRepo) EmailByUsername(ctx context.Context, username string) (string, error) {
	if m.emailByUsernameFunc == nil {
		m.t.Fatal("EmailByUsername called but not configured in test - mock requires explicit setup")
	}
	return m.emailByUsernameFunc(ctx, username)
}

func (m *mockUserRepo) UpdateIdentity(ctx context.Context, id string, input models.IdentityInput) (*models.UserDetailView, error) {
	if m.updateIdentityFunc == nil {
		m.t.Fatal("UpdateIdentity called but not configured in test - mock requires explicit setup")
	}
	return m.updateIdentityFunc(ctx, id, input)
}

func (m *mockUserRepo) UpdateProfileFields(ctx context.Context, id string, input models.ProfileUpdateInput) (*models.UserDetailView, error) {
	if m.updateProfileFieldsFunc == nil {
		m.t.Fatal("UpdateProfileFields called but not configured in test - mock requires explicit setup")
	}
	return m.updateProfileFieldsFunc(ctx, id, input)
}

func (m *mockUserRepo) GetByUsernames(ctx context.Context, usernames []string) ([]models.MatchView, error) {
	if m.getByUsernamesFunc == nil {
		m.t.Fatal("GetByUsernames called but not configured in test - mock requires explicit setup")
	}
	return m.getByUsernamesFunc(ctx, usernames)
}

func (m *mockUserRepo) GetByIDs(ctx context.Context, ids []string) ([]models.MatchView, error) {
	if m.getByIDsFunc == nil {
		m.t.Fatal("GetByIDs called but not configured in test - mock requires explicit setup")
	}
	return m.getByIDsFunc(ctx, ids)
}

type mockFollowRepo struct {
	t *testing.T

	followFunc    func(ctx context.Context, followerID, followedID string) (*models.Follow, error)
	unfollowFunc  func(ctx context.Context, followerID, followedID string) error
	followersFunc func(ctx context.Context, userID string) ([]models.UserView, error)
	followingFunc func(ctx context.Context, userID string) ([]models.UserView, error)
}

func (m *mockFollowRepo) Follow(ctx context.Context, followerID, followedID string) (*models.Follow, error) {
	if m.followFunc == nil {
		m.t.Fatal("Follow called but not configured in test - mock requires explicit setup")
	}
	return m.followFunc(ctx, followerID, followedID)
}

func (m *mockFollowRepo) Unfollow(ctx context.Context, followerID, followedID string) error {
	if m.unfollowFunc == nil {
		m.t.Fatal("Unfollow called but not configured in test - mock requires explicit setup")
	}
	return m.unfollowFunc(ctx, followerID, followedID)
}

func (m *mockFollowRepo) Followers(ctx context.Context, userID string) ([]models.UserView, error) {
	if m.followersFunc == nil {
		m.t.Fatal("Followers called but not configured in test - mock requires explicit setup")
	}
	return m.followersFunc(ctx, userID)
}

func (m *mockFollowRepo) Following(ctx context.Context, userID string) ([]models.UserView, error) {
	if m.followingFunc == nil {
		m.t.Fatal("Following called but not configured in test - mock requires explicit setup")
	}
	return m.followingFunc(ctx, userID)
}

type mockDiscoveryRepo struct {
	t *testing.T

	nearUsersFunc       func(ctx context.Context, userID string, radiusKM float64) ([]models.MatchView, error)
	commonInterestsFunc func(ctx context.Context, userID string) ([]models.MatchView, error)

	nearRadiusCalls []float64
}

func (m *mockDiscoveryRepo) NearUsers(ctx context.Context, userID string, radiusKM float64) ([]models.MatchView, error) {
	m.nearRadiusCalls = append(m.nearRadiusCalls, radiusKM)
	if m.nearUsersFunc == nil {
		m.t.Fatal("NearUsers called but not configured in test - mock requires explicit setup")
	}
	return m.nearUsersFunc(ctx, userID, radiusKM)
}

func (m *mockDiscoveryRepo) CommonInterests(ctx context.Context, userID string) ([]models.MatchView, error) {
	if m.commonInterestsFunc == nil {
		m.t.Fatal("CommonInterests called but not configured in test - mock requires explicit setup")
	}
	return m.commonInterestsFunc(ctx, userID)
}

type mockMetrics struct {
	published []*queue.MetricEvent
	err       error
}

func (m *mockMetrics) Publish(ctx context.Context, event *queue.MetricEvent) error {
	m.published = append(m.published, event)
	return m.err
}

func (m *mockMetrics) Close() error { return nil }

// Ensure mocks implement the interfaces
var (
	_ database.UserRepositoryInterface      = (*mockUserRepo)(nil)
	_ database.FollowRepositoryInterface    = (*mockFollowRepo)(nil)
	_ database.DiscoveryRepositoryInterface = (*mockDiscoveryRepo)(nil)
	_ queue.MetricsPublisher                = (*mockMetrics)(nil)
)

func newTestService(users *mockUserRepo, follows *mockFollowRepo, discovery *mockDiscoveryRepo, metrics queue.MetricsPublisher) *AccountService {
	return NewAccountService(users, follows, discovery, metrics, zap.NewNop())
}

func TestCreateUser_EmptyUsernameRejected(t *testing.T) {
	t.Parallel()

	users := &mockUserRepo{t: t}
	svc := newTestService(users, &mockFollowRepo{t: t}, &mockDiscoveryRepo{t: t}, nil)

	tests := []string{"", "   ", "\t"}
	for _, username := range tests {
		_, err := svc.CreateUser(context.Background(), models.NewUserInput{Username: username, Email: "a@b.com"})
		if !errors.Is(err, database.ErrInvalidInput) {
			t.Errorf("username %q: expected ErrInvalidInput, got %v", username, err)
		}
	}

	if len(users.createCalls) != 0 {
		t.Errorf("store must not be touched on invalid input, got %d calls", len(users.createCalls))
	}
}

func TestCreateUser_DuplicateUsernameLeavesOtherUserIntact(t *testing.T) {
	t.Parallel()

	// Stateful mock simulating the store's uniqueness constraint.
	name := "Sofia"
	existing := &models.User{
		ID:        "u1",
		Username:  "sofisofi",
		Name:      &name,
		Email:     "sofia@gmail.com",
		CreatedAt: time.Now(),
	}

	users := &mockUserRepo{t: t}
	users.createFunc = func(ctx context.Context, input models.NewUserInput) (*models.User, error) {
		if input.Username == existing.Username {
			return nil, &database.DuplicateError{Field: "username"}
		}
		return &models.User{ID: "u2", Username: input.Username, Email: input.Email}, nil
	}
	users.getByIDFunc = func(ctx context.Context, id string) (*models.UserDetailView, error) {
		if id == existing.ID {
			return &models.UserDetailView{UserView: existing.View()}, nil
		}
		return nil, database.ErrNotFound
	}

	svc := newTestService(users, &mockFollowRepo{t: t}, &mockDiscoveryRepo{t: t}, nil)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, models.NewUserInput{Username: "sofisofi", Email: "other@gmail.com"})
	field, ok := database.IsDuplicate(err)
	if !ok || field != "username" {
		t.Fatalf("expected DuplicateError on username, got %v", err)
	}

	got, err := svc.GetUser(ctx, existing.ID)
	if err != nil {
		t.Fatalf("first user should still be retrievable: %v", err)
	}
	if got.Username != "sofisofi" || got.Email != "sofia@gmail.com" {
		t.Errorf("first user changed: %+v", got)
	}
}

func TestCreateUser_EmitsMetric(t *testing.T) {
	t.Parallel()

	users := &mockUserRepo{t: t}
	users.createFunc = func(ctx context.Context, input models.NewUserInput) (*models.User, error) {
		return &models.User{ID: "u1", Username: input.Username, Email: input.Email}, nil
	}
	metrics := &mockMetrics{}

	svc := newTestService(users, &mockFollowRepo{t: t}, &mockDiscoveryRepo{t: t}, metrics)
	if _, err := svc.CreateUser(context.Background(), models.NewUserInput{Username: "ana", Email: "ana@x.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(metrics.published) != 1 {
		t.Fatalf("expected 1 metric event, got %d", len(metrics.published))
	}
	if metrics.published[0].Name != "user_created" {
		t.Errorf("expected user_created event, got %q", metrics.published[0].Name)
	}
}

func TestCreateUser_MetricFailureDoesNotAffectOutcome(t *testing.T) {
	t.Parallel()

	users := &mockUserRepo{t: t}
	users.createFunc = func(ctx context.Context, input models.NewUserInput) (*models.User, error) {
		return &models.User{ID: "u1", Username: input.Username, Email: input.Email}, nil
	}
	metrics := &mockMetrics{err: errors.New("broker unreachable")}

	svc := newTestService(users, &mockFollowRepo{t: t}, &mockDiscoveryRepo{t: t}, metrics)
	user, err := svc.CreateUser(context.Background(), models.NewUserInput{Username: "ana", Email: "ana@x.com"})
	if err != nil {
		t.Fatalf("metric failure must not fail the operation: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestSearchUsers_EmptyTermRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockUserRepo{t: t}, &mockFollowRepo{t: t}, &mockDiscoveryRepo{t: t}, nil)
	_, err := svc.SearchUsers(context.Background(), "  ")
	if !errors.Is(err, database.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCompleteRegistration_Validation(t *testing.T) {
	t.Parallel()

	badLat := 91.0
	badLong := -200.0
	okLat := -34.6

	tests := []struct {
		name  string
		input models.IdentityInput
	}{
		{name: "missing external id", input: models.IdentityInput{}},
		{name: "latitude out of range", input: models.IdentityInput{ExternalID: "ext-1", LocationLat: &badLat}},
		{name: "longitude out of range", input: models.IdentityInput{ExternalID: "ext-1", LocationLat: &okLat, LocationLong: &badLong}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(&mockUserRepo{t: t}, &mockFollowRepo{t: t}, &mockDiscoveryRepo{t: t}, nil)
			_, err := svc.CompleteRegistration(context.Background(), "u1", tt.input)
			if !errors.Is(err, database.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCompleteRegistration_RekeysAndEmitsMetric(t *testing.T) {
	t.Parallel()

	users := &mockUserRepo{t: t}
	users.updateIdentityFunc = func(ctx context.Context, id string, input models.IdentityInput) (*models.UserDetailView, error) {
		if id != "u1" || input.ExternalID != "ext-1" {
			t.Errorf("unexpected re-key args: id=%q external=%q", id, input.ExternalID)
		}
		detail := &models.UserDetailView{}
		detail.ID = input.ExternalID
		detail.Username = "ana"
		return detail, nil
	}
	metrics := &mockMetrics{}

	svc := newTestService(users, &mockFollowRepo{t: t}, &mockDiscoveryRepo{t: t}, metrics)
	detail, err := svc.CompleteRegistration(context.Background(), "u1", models.IdentityInput{ExternalID: "ext-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ID != "ext-1" {
		t.Errorf("expected re-keyed id ext-1, got %q", detail.ID)
	}
	if len(metrics.published) != 1 || metrics.published[0].Name != "registration_completed" {
		t.Errorf("expected registration_completed metric, got %+v", metrics.published)
	}
}

func TestUpdateProfile_EmptyPayloadRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockUserRepo{t: t}, &mockFollowRepo{t: t}, &mockDiscoveryRepo{t: t}, nil)
	_, err := svc.UpdateProfile(context.Background(), "u1", models.ProfileUpdateInput{})
	if !errors.Is(err, database.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateProfile_PassesThroughSparseInput(t *testing.T) {
	t.Parallel()

	interests := "music"
	users := &mockUserRepo{t: t}
	users.updateProfileFieldsFunc = func(ctx context.Context, id string, input models.ProfileUpdateInput) (*models.UserDetailView, error) {
		if input.Interests == nil || *input.Interests != "music" {
			t.Errorf("interests not passed through: %+v", input)
		}
		if input.Name != nil || input.Birthdate != nil || input.ProfilePicture != nil {
			t.Errorf("absent fields must stay nil: %+v", input)
		}
		return &models.UserDetailView{}, nil
	}

	svc := newTestService(users, &mockFollowRepo{t: t}, &mockDiscoveryRepo{t: t}, nil)
	if _, err := svc.UpdateProfile(context.Background(), "u1", models.ProfileUpdateInput{Interests: &interests}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFollow_PropagatesDomainErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		repoErr error
	}{
		{name: "duplicate edge", repoErr: database.ErrAlreadyFollowing},
		{name: "missing user", repoErr: database.ErrNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			follows := &mockFollowRepo{t: t}
			follows.followFunc = func(ctx context.Context, followerID, followedID string) (*models.Follow, error) {
				return nil, tt.repoErr
			}
			metrics := &mockMetrics{}

			svc := newTestService(&mockUserRepo{t: t}, follows, &mockDiscoveryRepo{t: t}, metrics)
			_, err := svc.Follow(context.Background(), "a", "b")
			if !errors.Is(err, tt.repoErr) {
				t.Errorf("expected %v, got %v", tt.repoErr, err)
			}
			if len(metrics.published) != 0 {
				t.Error("no metric must be emitted on failure")
			}
		})
	}
}

func TestUnfollow_MissingEdgeIsNotFound(t *testing.T) {
	t.Parallel()

	follows := &mockFollowRepo{t: t}
	follows.unfollowFunc = func(ctx context.Context, followerID, followedID string) error {
		return database.ErrNotFound
	}

	svc := newTestService(&mockUserRepo{t: t}, follows, &mockDiscoveryRepo{t: t}, nil)
	err := svc.Unfollow(context.Background(), "a", "b")
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNearUsers_DefaultRadius(t *testing.T) {
	t.Parallel()

	discovery := &mockDiscoveryRepo{t: t}
	discovery.nearUsersFunc = func(ctx context.Context, userID string, radiusKM float64) ([]models.MatchView, error) {
		return []models.MatchView{}, nil
	}

	svc := newTestService(&mockUserRepo{t: t}, &mockFollowRepo{t: t}, discovery, nil)

	if _, err := svc.NearUsers(context.Background(), "u1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.NearUsers(context.Background(), "u1", 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(discovery.nearRadiusCalls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(discovery.nearRadiusCalls))
	}
	if discovery.nearRadiusCalls[0] != database.DefaultNearRadiusKM {
		t.Errorf("expected default radius %.1f, got %.1f", database.DefaultNearRadiusKM, discovery.nearRadiusCalls[0])
	}
	if discovery.nearRadiusCalls[1] != 25 {
		t.Errorf("expected explicit radius 25, got %.1f", discovery.nearRadiusCalls[1])
	}
}

func TestFollowGraph_RoundTripThroughMockState(t *testing.T) {
	t.Parallel()

	// Stateful mock mirroring the edge-table semantics.
	edges := map[[2]string]bool{}
	userA := models.UserView{ID: "a", Username: "ana", Email: "ana@x.com"}
	userB := models.UserView{ID: "b", Username: "bruno", Email: "bruno@x.com"}
	views := map[string]models.UserView{"a": userA, "b": userB}

	follows := &mockFollowRepo{t: t}
	follows.followFunc = func(ctx context.Context, followerID, followedID string) (*models.Follow, error) {
		key := [2]string{followerID, followedID}
		if edges[key] {
			return nil, database.ErrAlreadyFollowing
		}
		edges[key] = true
		return &models.Follow{FollowerID: followerID, FollowedID: followedID, FollowedAt: time.Now()}, nil
	}
	follows.unfollowFunc = func(ctx context.Context, followerID, followedID string) error {
		key := [2]string{followerID, followedID}
		if !edges[key] {
			return database.ErrNotFound
		}
		delete(edges, key)
		return nil
	}
	follows.followersFunc = func(ctx context.Context, userID string) ([]models.UserView, error) {
		result := []models.UserView{}
		for key := range edges {
			if key[1] == userID {
				result = append(result, views[key[0]])
			}
		}
		return result, nil
	}
	follows.followingFunc = func(ctx context.Context, userID string) ([]models.UserView, error) {
		result := []models.UserView{}
		for key := range edges {
			if key[0] == userID {
				result = append(result, views[key[1]])
			}
		}
		return result, nil
	}

	svc := newTestService(&mockUserRepo{t: t}, follows, &mockDiscoveryRepo{t: t}, nil)
	ctx := context.Background()

	if _, err := svc.Follow(ctx, "a", "b"); err != nil {
		t.Fatalf("follow failed: %v", err)
	}

	followers, _ := svc.Followers(ctx, "b")
	if len(followers) != 1 || followers[0].ID != "a" {
		t.Errorf("expected a in followers of b, got %+v", followers)
	}
	following, _ := svc.Following(ctx, "a")
	if len(following) != 1 || following[0].ID != "b" {
		t.Errorf("expected b in following of a, got %+v", following)
	}

	if _, err := svc.Follow(ctx, "a", "b"); !errors.Is(err, database.ErrAlreadyFollowing) {
		t.Errorf("second follow should fail with ErrAlreadyFollowing, got %v", err)
	}

	if err := svc.Unfollow(ctx, "a", "b"); err != nil {
		t.Fatalf("unfollow failed: %v", err)
	}

	followers, _ = svc.Followers(ctx, "b")
	if len(followers) != 0 {
		t.Errorf("followers should be empty after unfollow, got %+v", followers)
	}

	if err := svc.Unfollow(ctx, "a", "b"); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("unfollow with no edge should fail with ErrNotFound, got %v", err)
	}
}

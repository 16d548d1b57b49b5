package database

import (
	"testing"
)

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}

func TestUserRepository_GetByID_MergesProfile(t *testing.T) {
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}

func TestUserRepository_UpdateIdentity_RekeyCascades(t *testing.T) {
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}

func TestFollowRepository_FollowUnfollowRoundTrip(t *testing.T) {
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}

func TestDiscoveryRepository_NearUsers(t *testing.T) {
	t.Skip("Requires database setup - implement with testcontainers or integration test setup")
}

func TestPresent(t *testing.T) {
	t.Parallel()

	empty := ""
	value := "x"

	if present(nil) {
		t.Error("nil pointer should read as absent")
	}
	if present(&empty) {
		t.Error("empty string should read as absent")
	}
	if !present(&value) {
		t.Error("non-empty string should read as present")
	}
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "50%", want: `50\%`},
		{in: "under_score", want: `under\_score`},
		{in: `back\slash`, want: `back\\slash`},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

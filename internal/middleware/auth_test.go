package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/svaldez/socialnet-api/internal/request"
)

type mockValidator struct {
	subject string
	err     error
	tokens  []string
}

func (m *mockValidator) Validate(ctx context.Context, token string) (string, error) {
	m.tokens = append(m.tokens, token)
	if m.err != nil {
		return "", m.err
	}
	return m.subject, nil
}

func TestAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		header      string
		validator   *mockValidator
		wantStatus  int
		wantSubject string
	}{
		{
			name:        "valid token passes with subject in context",
			header:      "Bearer good",
			validator:   &mockValidator{subject: "user-42"},
			wantStatus:  http.StatusOK,
			wantSubject: "user-42",
		},
		{
			name:       "missing header rejected",
			header:     "",
			validator:  &mockValidator{subject: "unused"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header rejected",
			header:     "Token abc",
			validator:  &mockValidator{subject: "unused"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "validator rejection surfaces as 401",
			header:     "Bearer bad",
			validator:  &mockValidator{err: errors.New("rejected")},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotSubject string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSubject = request.SubjectFromContext(r)
				w.WriteHeader(http.StatusOK)
			})

			handler := Auth(tt.validator, zap.NewNop())(next)

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantSubject != "" && gotSubject != tt.wantSubject {
				t.Errorf("expected subject %q in context, got %q", tt.wantSubject, gotSubject)
			}
		})
	}
}

func TestAuth_ValidatorNotCalledWithoutToken(t *testing.T) {
	t.Parallel()

	validator := &mockValidator{subject: "unused"}
	handler := Auth(validator, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if len(validator.tokens) != 0 {
		t.Errorf("validator must not be called without a token, got %v", validator.tokens)
	}
}

package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserIDFromContext(r.Context())
		w.Header().Set("X-User", id)
		w.Header().Set("X-Role", string(RoleFromContext(r.Context())))
	})
}

func TestJWTAuth(t *testing.T) {
	h := JWTAuth(testSecret, logger.NewNop())(identityEcho())

	valid, err := IssueToken(testSecret, "u1", domain.RoleOwner, time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, "u1", domain.RoleOwner, -time.Minute)
	require.NoError(t, err)
	otherKey, err := IssueToken("another-secret", "u1", domain.RoleOwner, time.Hour)
	require.NoError(t, err)
	unknownRole, err := IssueToken(testSecret, "u2", "superuser", time.Hour)
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
		user   string
		role   string
	}{
		{"valid", "Bearer " + valid, http.StatusOK, "u1", "owner"},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, "u1", "owner"},
		{"unknown role falls back to user", "Bearer " + unknownRole, http.StatusOK, "u2", "user"},
		{"missing", "", http.StatusUnauthorized, "", ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "", ""},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "", ""},
		{"wrong key", "Bearer " + otherKey, http.StatusUnauthorized, "", ""},
		{"alg none", "Bearer " + noneAlg, http.StatusUnauthorized, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.user, rec.Header().Get("X-User"))
			assert.Equal(t, tt.role, rec.Header().Get("X-Role"))
		})
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(logger.NewNop(), domain.RoleAdmin)(identityEcho())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(withIdentity(req.Context(), "a1", domain.RoleAdmin)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(withIdentity(req.Context(), "u1", domain.RoleUser)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

package rest

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims is the token payload issued by the user service.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth rejects requests without a valid HMAC signed bearer token and
// stores the caller's id and role in the request context.
func JWTAuth(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				respondError(w, r, log, fmt.Errorf("%w: you are not logged in", domain.ErrUnauthenticated))
				return
			}

			claims := &Claims{}
			_, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || claims.UserID == "" {
				log.Debug("Rejected bearer token", zap.Error(err))
				respondError(w, r, log, fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthenticated))
				return
			}

			role := domain.Role(claims.Role)
			if !role.Valid() {
				role = domain.RoleUser
			}
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims.UserID, role)))
		})
	}
}

// RequireRole must run after JWTAuth.
func RequireRole(log *logger.Logger, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := RoleFromContext(r.Context())
			for _, want := range roles {
				if got == want {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, r, log, fmt.Errorf("%w: you do not have permission to perform this action", domain.ErrForbidden))
		})
	}
}

// IssueToken signs a token in the format JWTAuth accepts.
func IssueToken(secret, userID string, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

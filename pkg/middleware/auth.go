package middleware

import (
	"net/http"
	"strings"

	"limo-booking/pkg/utils"

	"go.uber.org/zap"
)

// TokenCookie is the http-only cookie the login endpoint sets.
const TokenCookie = "admin_token"

// AdminAuth validates the bearer or cookie token. A missing token is 401;
// a token that fails signature or expiry verification is 400.
func AdminAuth(jwtConfig utils.JWTConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			claims, err := utils.ParseToken(token, jwtConfig.Secret)
			if err != nil {
				logger.Warn("Invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				utils.ResponseBadRequest(w, "Invalid or expired token", nil)
				return
			}

			if claims.Role != "admin" {
				logger.Warn("Non-admin token on admin route",
					zap.String("email", claims.Email),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			ctx := utils.SetAdminContext(r.Context(), claims.Email, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken prefers the Authorization header, falling back to the
// session cookie set at login.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := r.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

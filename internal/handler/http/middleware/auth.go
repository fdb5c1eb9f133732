package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/salary-engine-go/internal/handler/http/response"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/jwt"
	"github.com/go-chi/httplog/v3"
)

// AuthRequired rejects requests without a verified access token and tags the
// request log with the caller identity. It runs after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		attrs := []slog.Attr{slog.String("user_id", claims.UserID)}
		if claims.CompanyID != "" {
			attrs = append(attrs, slog.String("company_id", claims.CompanyID))
		}
		httplog.SetAttrs(r.Context(), attrs...)

		next.ServeHTTP(w, r)
	})
}

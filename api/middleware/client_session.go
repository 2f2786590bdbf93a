package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kiranakart/kiranakart-backend/pkg/logger"
)

const clientSessionHeader = "X-Client-Session"

// ClientSession ties every request to a browser session identifier. A
// missing or malformed header gets a freshly issued id; the id is echoed
// back so the storefront can persist it for subsequent requests.
func ClientSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(clientSessionHeader))
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}

			w.Header().Set(clientSessionHeader, id)

			ctx := WithClientSession(r.Context(), id)
			if logg != nil {
				ctx = logg.WithClientSession(ctx, id)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

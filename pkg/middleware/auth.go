package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"messengerclone/pkg/session"
)

type contextKey string

const userIDContextKey contextKey = "userID"

var noSessUrls = map[string]string{
	"/api/auth/login":  http.MethodPost,
	"/api/auth/verify": http.MethodPost,
}

// Auth resolves the bearer session token on every API request except the
// two pre-login routes and stores the user id in the request context.
func Auth(sessions *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := mux.CurrentRoute(r)
			template, err := route.GetPathTemplate()
			if err != nil {
				http.Error(w, "Route not found", http.StatusNotFound)
				return
			}

			if method, ok := noSessUrls[template]; ok && method == r.Method {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(auth, "Bearer ")

			userID, err := sessions.Resolve(token)
			if err != nil {
				http.Error(w, `{"message":"invalid session"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID reads the authenticated user from the request context.
func UserID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(userIDContextKey).(int64)
	return id, ok
}

// WithUserID is the injection counterpart of UserID, for handler tests
// that bypass the middleware.
func WithUserID(r *http.Request, id int64) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIDContextKey, id))
}

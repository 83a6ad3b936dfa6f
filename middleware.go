package recordkit

import (
	"net/http"
	"strings"
)

// Middleware provides HTTP middleware for authentication and permission
// checking.
type Middleware struct {
	service      *Service
	issuer       *TokenIssuer
	getToken     func(*http.Request) string
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	issuer := recordkit.NewTokenIssuer(secret, 24*time.Hour)
//	mw := recordkit.NewMiddleware(service, issuer)
//	router.Use(mw.Authenticate())
func NewMiddleware(service *Service, issuer *TokenIssuer, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		service:      service,
		issuer:       issuer,
		getToken:     defaultGetToken,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithTokenExtractor sets a custom function to extract the bearer token from
// a request.
func WithTokenExtractor(fn func(*http.Request) string) MiddlewareOption {
	return func(m *Middleware) {
		m.getToken = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return token
	}
	return ""
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case IsUnauthenticated(err) || IsInvalidCredentials(err):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case IsPermissionDenied(err):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case IsNotFound(err):
		http.Error(w, "Not Found", http.StatusNotFound)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Authenticate creates middleware that verifies the request's bearer token,
// loads the user (role and permissions included) and stores user and
// Checker in the context. Requests without a valid token get 401.
//
// Example:
//
//	router.Use(mw.Authenticate())
func (m *Middleware) Authenticate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := m.getToken(r)
			if token == "" {
				m.errorHandler(w, r, NewError(ErrUnauthenticated, "missing bearer token"))
				return
			}

			userID, err := m.issuer.Verify(token)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			user, err := m.service.GetUser(ctx, userID)
			if err != nil {
				if IsNotFound(err) {
					// Token outlived the account.
					m.errorHandler(w, r, NewError(ErrUnauthenticated, "user no longer exists"))
					return
				}
				m.errorHandler(w, r, err)
				return
			}

			ctx = WithUser(ctx, user)
			ctx = WithChecker(ctx, NewChecker(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission creates middleware that requires one permission. Must
// run after Authenticate. Webadmin passes regardless of seeded permissions.
//
// Example:
//
//	router.With(mw.RequirePermission(recordkit.PermDropdownOptionsManage)).
//	    Post("/dropdown-options", createOptionHandler)
func (m *Middleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r.Context())
			if user == nil {
				m.errorHandler(w, r, NewError(ErrUnauthenticated, "no authenticated user"))
				return
			}

			if !user.IsWebadmin() && !user.HasPermission(permission) {
				m.errorHandler(w, r, NewError(ErrPermissionDenied, "missing required permission").
					WithPermission(permission).
					WithResource("user", user.ID))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission creates middleware that requires at least one of the
// given permissions. Must run after Authenticate.
//
// Example:
//
//	router.With(mw.RequireAnyPermission(recordkit.PermRecordsUpdate, recordkit.PermRecordsUpdateOwn)).
//	    Put("/records/{id}", updateRecordHandler)
func (m *Middleware) RequireAnyPermission(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r.Context())
			if user == nil {
				m.errorHandler(w, r, NewError(ErrUnauthenticated, "no authenticated user"))
				return
			}

			if !user.IsWebadmin() && !user.HasAnyPermission(permissions...) {
				m.errorHandler(w, r, NewError(ErrPermissionDenied, "missing required permission").
					WithResource("user", user.ID))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole creates middleware that requires an exact role slug. Webadmin
// does NOT bypass this check; a route locked to another slug stays locked.
//
// Example:
//
//	router.With(mw.RequireRole(recordkit.RoleWebadmin)).Get("/admin", adminHandler)
func (m *Middleware) RequireRole(slug string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r.Context())
			if user == nil {
				m.errorHandler(w, r, NewError(ErrUnauthenticated, "no authenticated user"))
				return
			}

			if !user.HasRole(slug) {
				m.errorHandler(w, r, NewError(ErrPermissionDenied, "missing required role").
					WithRole(slug).
					WithResource("user", user.ID))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestID creates middleware that copies the X-Request-ID header into the
// context for log correlation. Requests without the header pass through
// unchanged.
func (m *Middleware) RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requestID := r.Header.Get("X-Request-ID"); requestID != "" {
				r = r.WithContext(WithRequestID(r.Context(), requestID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

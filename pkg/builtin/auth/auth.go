// Package auth implements the built-in "auth" feature plugin (SPEC_FULL.md
// §6): JWT-based authentication middleware plus login/refresh routes for
// the emitted project. Grounded on
// 2lar-b2/backend/pkg/auth/jwt.go's JWTValidator (HS256 HMAC validation,
// Claims struct embedding jwt.RegisteredClaims, Bearer-prefix stripping)
// and 2lar-b2/backend2/interfaces/http/rest/middleware/auth.go's
// Authenticate() middleware shape, rendered here as a generated-code
// template rather than copied verbatim since the emitted project's model
// (schema-derived User type) differs from the teacher's fixed domain.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/schemagen/schemagen/pkg/filemap"
	"github.com/schemagen/schemagen/pkg/ir"
	"github.com/schemagen/schemagen/pkg/plugin"
)

// emailFieldNames/passwordFieldNames are the naming conventions Validate
// scans the User model for, the same lowercase-name-matching style
// analyzer.detectSpecialFields uses for slug/softDelete detection.
var emailFieldNames = map[string]bool{"email": true}
var passwordFieldNames = map[string]bool{"passwordhash": true, "password": true, "hashedpassword": true}

// Plugin is the auth feature plugin.
type Plugin struct {
	plugin.Base
}

// New returns an auth Plugin.
func New() *Plugin {
	return &Plugin{Base: plugin.Base{IDValue: "auth", VersionValue: "0.1.0", PriorityValue: 10}}
}

func init() {
	if err := plugin.RegisterGlobal(New()); err != nil {
		panic(err)
	}
}

func (p *Plugin) Requirements() plugin.Requirements {
	return plugin.Requirements{
		Models:  []string{"User"},
		EnvVars: []string{"JWT_SECRET"},
	}
}

func (p *Plugin) Validate(_ context.Context, rc plugin.RequestContext) (plugin.ValidateResult, error) {
	var diags []ir.Diagnostic
	user, ok := rc.Schema.ModelMap["User"]
	if !ok {
		return plugin.ValidateResult{Diagnostics: []ir.Diagnostic{{
			Severity: ir.SeverityError,
			Message:  `plugin "auth" requires a "User" model, which is not present in the schema`,
		}}}, nil
	}

	emailField, passwordField := "", ""
	for i := range user.Fields {
		f := &user.Fields[i]
		if emailFieldNames[f.NameLower] {
			emailField = f.Name
		}
		if passwordFieldNames[f.NameLower] {
			passwordField = f.Name
		}
	}
	if emailField == "" {
		diags = append(diags, ir.Diagnostic{
			Severity:  ir.SeverityError,
			ModelName: "User",
			Message:   `plugin "auth" requires User to have an "email" field`,
		})
	}
	if passwordField == "" {
		diags = append(diags, ir.Diagnostic{
			Severity:  ir.SeverityError,
			ModelName: "User",
			Message:   `plugin "auth" requires User to have a password-hash-shaped field (passwordHash, password, or hashedPassword)`,
		})
	}
	return plugin.ValidateResult{Diagnostics: diags}, nil
}

func (p *Plugin) Generate(_ context.Context, rc plugin.RequestContext) (plugin.Output, error) {
	jwtSecretEnv, _ := rc.Config["jwtSecretEnv"].(string)
	if jwtSecretEnv == "" {
		jwtSecretEnv = "JWT_SECRET"
	}
	issuer, _ := rc.Config["issuer"].(string)
	if issuer == "" {
		issuer = "schemagen-app"
	}

	return plugin.Output{
		Files: []filemap.GeneratedFile{{
			Path:     "gen/auth/jwt.go",
			Contents: renderJWT(jwtSecretEnv, issuer),
			Category: "plugin:auth",
		}, {
			Path:     "gen/auth/middleware.go",
			Contents: renderMiddleware(),
			Category: "plugin:auth",
		}, {
			Path:     "gen/auth/routes.go",
			Contents: renderRoutes(),
			Category: "plugin:auth",
		}},
		Routes: []plugin.RouteSpec{
			{Method: "POST", Path: "/api/auth/login", HandlerName: "auth.LoginHandler"},
			{Method: "POST", Path: "/api/auth/refresh", HandlerName: "auth.RefreshHandler"},
		},
		Middleware: []plugin.MiddlewareSpec{{Name: "auth.Authenticate", Order: 50}},
		EnvVars:    map[string]string{jwtSecretEnv: "change-me-in-production"},
	}, nil
}

func (p *Plugin) HealthCheck(_ context.Context, rc plugin.RequestContext) (plugin.HealthSection, bool) {
	return plugin.HealthSection{Name: "auth", Status: "ok"}, true
}

func renderJWT(jwtSecretEnv, issuer string) string {
	return fmt.Sprintf(`package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken  = errors.New("missing authentication token")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

// Claims is the JWT payload minted by Sign and checked by Parse.
type Claims struct {
	UserID string `+"`json:\"sub\"`"+`
	Email  string `+"`json:\"email\"`"+`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(os.Getenv("%s"))
}

// Sign mints an access token valid for ttl, issued by %q.
func Sign(userID, email string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    %q,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// Parse validates a bearer token string and returns its claims.
func Parse(tokenString string) (*Claims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %%v", t.Method)
		}
		return secret(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
`, jwtSecretEnv, issuer, issuer)
}

func renderMiddleware() string {
	return `package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/schemagen/schemagen/gen/reqctx"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// Authenticate requires a valid bearer token, stashing its Claims in the
// request context for handlers to read via UserFromContext.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := Parse(r.Header.Get("Authorization"))
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":     "unauthorized",
				"requestId": reqctx.RequestID(r.Context()),
			})
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext retrieves the authenticated Claims stashed by
// Authenticate, or nil if the request was never authenticated.
func UserFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(userContextKey).(*Claims)
	return claims
}
`
}

func renderRoutes() string {
	return `package auth

import (
	"encoding/json"
	"net/http"
	"time"
)

type loginRequest struct {
	Email    string ` + "`json:\"email\" validate:\"required,email\"`" + `
	Password string ` + "`json:\"password\" validate:\"required\"`" + `
}

type tokenResponse struct {
	AccessToken string ` + "`json:\"accessToken\"`" + `
	ExpiresIn   int    ` + "`json:\"expiresIn\"`" + `
}

// LoginHandler authenticates email/password and mints an access token.
// The emitted project's own user-lookup/password-verification call site
// is left to the UserService wiring this route is registered alongside.
func LoginHandler(lookup func(email, password string) (userID string, ok bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		userID, ok := lookup(req.Email, req.Password)
		if !ok {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		ttl := time.Hour
		token, err := Sign(userID, req.Email, ttl)
		if err != nil {
			http.Error(w, "could not mint token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: token, ExpiresIn: int(ttl.Seconds())})
	}
}

// RefreshHandler re-mints a fresh access token for an already-authenticated
// caller (mounted behind Authenticate).
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	claims := UserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	ttl := time.Hour
	token, err := Sign(claims.UserID, claims.Email, ttl)
	if err != nil {
		http.Error(w, "could not mint token", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: token, ExpiresIn: int(ttl.Seconds())})
}
`
}

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fhuszti/stored-images-ms-go/internal/api_context"
	"github.com/fhuszti/stored-images-ms-go/internal/handler/api"
	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/golang-jwt/jwt/v4"
)

// ltiRolesClaim carries LTI 1.3 membership roles as IMS vocabulary URIs.
const ltiRolesClaim = "https://purl.imsglobal.org/spec/lti/claim/roles"

// clockSkew tolerated on iat and nbf for tokens minted by the LMS.
const clockSkew = 30 * time.Second

// lmsClaims are the claims of a token issued by the LMS for a course tool launch.
type lmsClaims struct {
	jwt.RegisteredClaims
	Roles    []string `json:"roles,omitempty"`
	LTIRoles []string `json:"https://purl.imsglobal.org/spec/lti/claim/roles,omitempty"`
}

// tokenVerifier checks RS256 tokens against the LMS public key, issuer and audience.
type tokenVerifier struct {
	parser   *jwt.Parser
	key      any
	issuer   string
	audience string
	now      func() time.Time
}

func (v *tokenVerifier) verify(raw string) (*lmsClaims, error) {
	claims := &lmsClaims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return v.key, nil })
	if err != nil {
		return nil, errors.New("unauthorized")
	}

	now := v.now()
	switch {
	case !claims.VerifyIssuer(v.issuer, true):
		return nil, errors.New("bad issuer")
	case !claims.VerifyAudience(v.audience, true):
		return nil, errors.New("bad audience")
	case !claims.VerifyExpiresAt(now, true):
		return nil, errors.New("token expired")
	case claims.IssuedAt != nil && claims.IssuedAt.After(now.Add(clockSkew)):
		return nil, errors.New("invalid iat")
	case claims.NotBefore != nil && claims.NotBefore.After(now.Add(clockSkew)):
		return nil, errors.New("token not valid yet")
	case claims.Subject == "":
		return nil, errors.New("missing sub")
	}
	return claims, nil
}

// WithBearerAuth validates an RS256 Bearer JWT issued by the LMS.
// The subject becomes the caller's user ID and the roles, plain or LTI URIs, are stored in short form.
// Without a public key every request passes through unauthenticated.
func WithBearerAuth(jwtPublicKeyPEM, issuer, audience string) func(http.Handler) http.Handler {
	if jwtPublicKeyPEM == "" {
		return func(next http.Handler) http.Handler { return next }
	}

	pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(jwtPublicKeyPEM))
	if err != nil {
		panic(fmt.Sprintf("invalid LMS RSA public key: %v", err))
	}

	v := &tokenVerifier{
		// time based claims are checked by verify, with clock skew
		parser:   jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name}), jwt.WithoutClaimsValidation()),
		key:      pubKey,
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				api.WriteError(w, r, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}

			claims, err := v.verify(raw)
			if err != nil {
				logger.Debugf(r.Context(), "rejected bearer token: %v", err)
				api.WriteError(w, r, http.StatusUnauthorized, err.Error(), nil)
				return
			}

			ctx := context.WithValue(r.Context(), api_context.AuthUserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, api_context.AuthRolesKey, shortRoles(claims.Roles, claims.LTIRoles))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// shortRoles lower-cases roles and reduces IMS URIs such as
// http://purl.imsglobal.org/vocab/lis/v2/membership#Instructor to their last segment.
func shortRoles(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, roles := range lists {
		for _, role := range roles {
			name := shortRole(role)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func shortRole(role string) string {
	role = strings.TrimSpace(role)
	if i := strings.LastIndexAny(role, "#/"); i >= 0 {
		role = role[i+1:]
	}
	return strings.ToLower(role)
}

// RequireAnyRole lets a request through when the caller holds one of the roles.
// It is a no-op when no roles are given or the request was not authenticated, as happens with auth disabled.
func RequireAnyRole(roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, role := range roles {
		if name := shortRole(role); name != "" {
			allowed[name] = true
		}
	}

	return func(next http.Handler) http.Handler {
		if len(allowed) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, authenticated := api_context.AuthUserIDFromContext(r.Context()); !authenticated {
				next.ServeHTTP(w, r)
				return
			}
			held, _ := api_context.AuthRolesFromContext(r.Context())
			for _, role := range held {
				if allowed[role] {
					next.ServeHTTP(w, r)
					return
				}
			}
			api.WriteError(w, r, http.StatusForbidden, "insufficient role", nil)
		})
	}
}

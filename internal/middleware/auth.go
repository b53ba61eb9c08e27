package middleware

import (
	"context"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"

	"studyhub/internal/db"
	"studyhub/internal/models"
)

// AuthMiddleware authenticates API requests carrying a bearer ID token
// issued by the OIDC provider. Verified users are upserted on first sight
// so the rest of the app can rely on a local user row.
type AuthMiddleware struct {
	verifier *oidc.IDTokenVerifier
	db       *db.DB
}

// NewAuthMiddleware creates an auth middleware over the OIDC verifier.
func NewAuthMiddleware(verifier *oidc.IDTokenVerifier, database *db.DB) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, db: database}
}

// NewVerifier builds an ID token verifier against the issuer's discovery
// endpoint.
func NewVerifier(ctx context.Context, issuer, clientID string) (*oidc.IDTokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}
	return provider.Verifier(&oidc.Config{ClientID: clientID}), nil
}

// UserFromContext returns the authenticated user set by RequireAuth or
// OptionalAuth, or nil for anonymous requests.
func UserFromContext(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

func bearerToken(c fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (m *AuthMiddleware) authenticate(c fiber.Ctx) (*models.User, error) {
	raw := bearerToken(c)
	if raw == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}

	idToken, err := m.verifier.Verify(c.Context(), raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token claims")
	}

	user := &models.User{
		Sub:     idToken.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}
	if err := m.db.UpsertUser(c.Context(), user); err != nil {
		return nil, err
	}

	if user.IsBanned {
		return nil, fiber.NewError(fiber.StatusForbidden, "account is banned")
	}
	return user, nil
}

// RequireAuth rejects requests without a valid bearer token.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	user, err := m.authenticate(c)
	if err != nil {
		return err
	}
	c.Locals("user", user)
	return c.Next()
}

// OptionalAuth loads the user when a valid token is present but lets
// anonymous requests through.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if bearerToken(c) == "" {
		return c.Next()
	}
	user, err := m.authenticate(c)
	if err != nil {
		// A bad token on an optional route is still a client error.
		return err
	}
	c.Locals("user", user)
	return c.Next()
}

// RequireModerator rejects authenticated users below moderator.
func (m *AuthMiddleware) RequireModerator(c fiber.Ctx) error {
	user := UserFromContext(c)
	if user == nil || !user.IsModerator() {
		return fiber.NewError(fiber.StatusForbidden, "moderator access required")
	}
	return c.Next()
}

// RequireAdmin rejects authenticated users below admin.
func (m *AuthMiddleware) RequireAdmin(c fiber.Ctx) error {
	user := UserFromContext(c)
	if user == nil || !user.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "admin access required")
	}
	return c.Next()
}

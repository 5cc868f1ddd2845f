package testhelpers

import (
	"time"

	"github.com/MikyMack/TranshaStays/backend/shared/go-middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// CreateJWT signs a short-lived access token carrying role.
func (h *TestHelper) CreateJWT(subject uuid.UUID, role string) string {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"iss":  middleware.TokenIssuer,
		"sub":  subject.String(),
		"role": role,
		"iat":  now,
		"exp":  now + 15*60,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(h.PrivateKey)
	require.NoError(h.T, err, "Failed to sign test JWT")
	return signed
}

// CreateAdminJWT creates a token accepted by the admin routes.
func (h *TestHelper) CreateAdminJWT() string {
	return h.CreateJWT(uuid.New(), "admin")
}

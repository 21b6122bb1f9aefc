package serverutils

import (
	"crypto/subtle"
	"strings"

	"techgear-support-be/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	APIKeyHeader    = "X-API-Key"
	LocalsClientKey = "client_id"
)

// AuthMiddleware admits a request carrying a configured X-API-Key or a valid
// bearer token. When API key auth is disabled every request passes.
func AuthMiddleware(cfg config.AuthConfig) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !cfg.APIKeyEnabled {
			return ctx.Next()
		}

		if key := ctx.Get(APIKeyHeader); key != "" {
			if !validAPIKey(cfg.APIKeys, key) {
				return unauthorized(ctx, "ApiKey", "Invalid API key")
			}
			ctx.Locals(LocalsClientKey, "api-key")
			return ctx.Next()
		}

		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(ctx, "ApiKey", "API key is missing")
		}

		subject, ok := verifyBearer(cfg.JWTSecret, strings.TrimPrefix(authHeader, "Bearer "))
		if !ok {
			return unauthorized(ctx, "Bearer", "Could not validate credentials")
		}
		ctx.Locals(LocalsClientKey, subject)
		return ctx.Next()
	}
}

func validAPIKey(keys []string, candidate string) bool {
	for _, k := range keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(candidate)) == 1 {
			return true
		}
	}
	return false
}

func verifyBearer(secret, tokenStr string) (string, bool) {
	if secret == "" {
		return "", false
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

func unauthorized(ctx *fiber.Ctx, scheme, message string) error {
	ctx.Set(fiber.HeaderWWWAuthenticate, scheme)
	return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, message))
}

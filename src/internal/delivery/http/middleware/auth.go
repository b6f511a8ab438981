package middleware

import (
	"fmt"
	"strings"

	httpError "booking-service/src/pkg/http-error"
	"booking-service/src/pkg/token"
	"booking-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

const userLocalsKey = "user"

// VerifyBearer authenticates the request with the shared JWT secret and
// stashes the claim for GetUser.
func VerifyBearer(config *viper.Viper) fiber.Handler {
	secret := []byte(config.GetString("jwt.secret"))
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "missing bearer token"
			return utils.ResponseError(errObj, ctx)
		}

		claim := new(token.Claim)
		parsed, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claim,
			func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return secret, nil
			})
		if err != nil || !parsed.Valid || claim.Metadata.UserID == "" {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "invalid or expired token"
			return utils.ResponseError(errObj, ctx)
		}

		ctx.Locals(userLocalsKey, claim)
		return ctx.Next()
	}
}

// GetUser returns the authenticated caller's metadata. Behind VerifyBearer
// it is always populated.
func GetUser(ctx *fiber.Ctx) *token.Metadata {
	claim, ok := ctx.Locals(userLocalsKey).(*token.Claim)
	if !ok {
		return &token.Metadata{}
	}
	return &claim.Metadata
}

package middlewares

import (
	t_token "student_community_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	//QueryToken token in query name, used by the websocket upgrade
	QueryToken = "auth"

	//TokenUserID get user from token, set c.locals name
	TokenUserID = "UserID"
)

// JWTMiddleware validates the JWT bearer token before any handler runs
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Authorization: Bearer <token>
		var tokenStr string
		if header := c.Get(fiber.HeaderAuthorization); header != "" {
			t, err := t_token.StripBearer(header)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Invalid token",
				})
			}
			tokenStr = t
		}

		// websocket clients can't set headers on upgrade, allow query param
		if tokenStr == "" {
			tokenStr = c.Query(QueryToken)
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Missing token",
			})
		}

		token, err := jwt.ParseWithClaims(tokenStr, &t_token.Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Unexpected signing method")
			}
			return t_token.JWTSecret, nil
		})

		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token",
			})
		}

		if claims, ok := token.Claims.(*t_token.Claims); ok && token.Valid {
			c.Locals(TokenUserID, claims.UserID)
		} else {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid token claims",
			})
		}

		return c.Next()
	}
}

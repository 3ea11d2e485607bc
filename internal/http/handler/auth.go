package handler

import (
	"github.com/gofiber/fiber/v2"

	"foodshare/internal/http/middleware"
	"foodshare/internal/service"
)

// Register creates an account and returns a token for it.
//
// @Summary  Register
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body     service.RegisterInput true "Account"
// @Success  201  {object} service.AuthResult
// @Failure  400  {object} errorPayload
// @Router   /auth/register [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		res, err := svc.Register(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// Login exchanges credentials for a token.
//
// @Summary  Login
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body     service.LoginInput true "Credentials"
// @Success  200  {object} service.AuthResult
// @Failure  400  {object} errorPayload
// @Failure  401  {object} errorPayload
// @Router   /auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.LoginInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		res, err := svc.Login(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// Me returns the authenticated user.
//
// @Summary  Current user
// @Tags     auth
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} model.User
// @Failure  401 {object} errorPayload
// @Router   /auth/me [get]
func Me(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.CurrentUser(c.UserContext(), middleware.IdentityFrom(c).ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

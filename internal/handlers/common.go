package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errNoUserID = errors.New("no user id in context")

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	value, ok := c.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, errNoUserID
	}
	return uuid.Parse(value)
}

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ecommerce-api/internal/services"
	"github.com/localnerve/ecommerce-api/internal/utils"
	"gorm.io/gorm"
)

// UserHandler handles user routes
type UserHandler struct {
	DB *gorm.DB
}

// CreateUser handles POST /users
// @Summary Create a user
// @Description Create a user. The email must not be registered to another user.
// @Tags Users
// @Accept json
// @Produce json
// @Param user body services.UserInput true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var input services.UserInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err, "createUser")
	}

	user, err := services.CreateUser(c.UserContext(), h.DB, input)
	if err != nil {
		return respondError(c, err, "createUser")
	}

	return utils.SuccessResponse(c, user, fiber.StatusCreated)
}

// ListUsers handles GET /users
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} models.User
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := services.ListUsers(c.UserContext(), h.DB)
	if err != nil {
		return respondError(c, err, "listUsers")
	}
	return utils.SuccessResponse(c, users, fiber.StatusOK)
}

// GetUser handles GET /users/:id
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c, "user", "getUser")
	}

	user, err := services.GetUser(c.UserContext(), h.DB, id)
	if err != nil {
		return respondError(c, err, "getUser")
	}
	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

// UpdateUser handles PUT /users/:id
// @Summary Update a user
// @Description Replace the name and email of a user. Any id in the body is ignored.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body services.UserUpdate true "Name and email"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c, "user", "updateUser")
	}

	var input services.UserUpdate
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err, "updateUser")
	}

	user, err := services.UpdateUser(c.UserContext(), h.DB, id, input)
	if err != nil {
		return respondError(c, err, "updateUser")
	}
	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

// DeleteUser handles DELETE /users/:id
// @Summary Delete a user
// @Description Delete a user. A user with orders is only deleted with cascade=true, which deletes the orders too.
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Param cascade query bool false "Also delete the user's orders"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c, "user", "deleteUser")
	}

	cascade := c.QueryBool("cascade", false)
	if err := services.DeleteUser(c.UserContext(), h.DB, id, cascade); err != nil {
		return respondError(c, err, "deleteUser")
	}

	return utils.MessageResponse(c, fmt.Sprintf("successfully deleted user %d", id))
}

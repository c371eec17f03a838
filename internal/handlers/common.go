// common.go
//
// A relational e-commerce data service for users, products and orders
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of ecommerce-api.
// ecommerce-api is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// ecommerce-api is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with ecommerce-api.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ecommerce-api/internal/services"
	"github.com/localnerve/ecommerce-api/internal/utils"
	"github.com/rs/zerolog"
)

// errInvalidID is returned by parseID for ids that are not positive integers
var errInvalidID = errors.New("invalid id")

// parseID reads a positive integer path parameter no larger than a BIGINT column holds
func parseID(c *fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 63)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// invalidID answers a malformed path id the same way as an unknown one
func invalidID(c *fiber.Ctx, entity, errorType string) error {
	return utils.ErrorResponse(c, fmt.Sprintf("Invalid %s id", entity), fiber.StatusBadRequest, errorType)
}

// parseBody decodes the JSON request body into out
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return &services.ValidationError{Message: fmt.Sprintf("Invalid request body: %v", err)}
	}
	return nil
}

// respondError translates a service error into its HTTP response.
// Unknown ids answer 400 like malformed input does; store failures are
// logged with the request logger and never echoed to the client.
func respondError(c *fiber.Ctx, err error, errorType string) error {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		conflictErr   *services.ConflictError
		integrityErr  *services.IntegrityError
	)

	log := zerolog.Ctx(c.UserContext())

	switch {
	case errors.As(err, &validationErr):
		return utils.FieldErrorResponse(c, validationErr.Message, validationErr.Fields, errorType)

	case errors.As(err, &notFoundErr):
		return utils.ErrorResponse(c, notFoundErr.Error(), fiber.StatusBadRequest, errorType)

	case errors.As(err, &conflictErr):
		return utils.ErrorResponse(c, conflictErr.Error(), fiber.StatusConflict, errorType)

	case errors.As(err, &integrityErr):
		log.Warn().Err(err).Str("type", errorType).Msg("integrity violation")
		return utils.ErrorResponse(c, "The request conflicts with existing data", fiber.StatusConflict, errorType)
	}

	log.Error().Err(err).Str("type", errorType).Msg("request failed")
	return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, errorType)
}

// ErrorHandler renders errors returned up the fiber chain in the standard envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		errorType := "http"
		if fiberErr.Code == fiber.StatusNotFound {
			errorType = "notFound"
		}
		return utils.ErrorResponse(c, fiberErr.Message, fiberErr.Code, errorType)
	}
	return respondError(c, err, "unknown")
}

// NotFound answers any route that matched nothing
func NotFound(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, "[404] Resource Not Found")
}

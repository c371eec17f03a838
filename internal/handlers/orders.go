// orders.go
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
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ecommerce-api/internal/services"
	"github.com/localnerve/ecommerce-api/internal/utils"
	"github.com/localnerve/ecommerce-api/internal/validation"
	"gorm.io/gorm"
)

// OrderHandler handles order routes and the order/product association
type OrderHandler struct {
	DB     *gorm.DB
	Policy services.DuplicatePolicy
}

// CreateOrder handles POST /orders
// @Summary Create an order
// @Description Create an order for an existing user. order_date defaults to now (UTC).
// @Tags Orders
// @Accept json
// @Produce json
// @Param order body services.OrderInput true "Order"
// @Success 201 {object} models.Order
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var input services.OrderInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err, "createOrder")
	}

	order, err := services.CreateOrder(c.UserContext(), h.DB, input)
	if err != nil {
		return respondError(c, err, "createOrder")
	}
	return utils.SuccessResponse(c, order, fiber.StatusCreated)
}

// ListOrders handles GET /orders
// @Summary List orders
// @Tags Orders
// @Produce json
// @Success 200 {array} models.Order
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := services.ListOrders(c.UserContext(), h.DB)
	if err != nil {
		return respondError(c, err, "listOrders")
	}
	return utils.SuccessResponse(c, orders, fiber.StatusOK)
}

// GetOrder handles GET /orders/:order_id
// @Summary Get an order
// @Tags Orders
// @Produce json
// @Param order_id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /orders/{order_id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "order_id")
	if err != nil {
		return invalidID(c, "order", "getOrder")
	}

	order, err := services.GetOrder(c.UserContext(), h.DB, id)
	if err != nil {
		return respondError(c, err, "getOrder")
	}
	return utils.SuccessResponse(c, order, fiber.StatusOK)
}

// DeleteOrder handles DELETE /orders/:order_id
// @Summary Delete an order
// @Description Delete an order. Its products are detached, not deleted.
// @Tags Orders
// @Produce json
// @Param order_id path int true "Order ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /orders/{order_id} [delete]
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "order_id")
	if err != nil {
		return invalidID(c, "order", "deleteOrder")
	}

	if err := services.DeleteOrder(c.UserContext(), h.DB, id); err != nil {
		return respondError(c, err, "deleteOrder")
	}
	return utils.MessageResponse(c, fmt.Sprintf("successfully deleted order %d", id))
}

// AddProduct handles POST /orders/:order_id/add_product
// @Summary Add a product to an order
// @Description Attach a product to an order. Attaching it again is a no-op, or a 409 when duplicates are rejected.
// @Tags Orders
// @Accept json
// @Produce json
// @Param order_id path int true "Order ID"
// @Param product body services.OrderProductInput true "Product to attach"
// @Success 200 {object} models.Order
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /orders/{order_id}/add_product [post]
func (h *OrderHandler) AddProduct(c *fiber.Ctx) error {
	orderID, err := parseID(c, "order_id")
	if err != nil {
		return invalidID(c, "order", "addProduct")
	}

	input, err := h.productInput(c)
	if err != nil {
		return respondError(c, err, "addProduct")
	}

	order, err := services.AddProductToOrder(c.UserContext(), h.DB, orderID, input.ProductID.Uint64(), h.Policy)
	if err != nil {
		return respondError(c, err, "addProduct")
	}
	return utils.SuccessResponse(c, order, fiber.StatusOK)
}

// RemoveProduct handles DELETE /orders/:order_id/remove_product
// @Summary Remove a product from an order
// @Description Detach one product from an order. The order and the product remain.
// @Tags Orders
// @Accept json
// @Produce json
// @Param order_id path int true "Order ID"
// @Param product body services.OrderProductInput true "Product to detach"
// @Success 200 {object} models.Order
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /orders/{order_id}/remove_product [delete]
func (h *OrderHandler) RemoveProduct(c *fiber.Ctx) error {
	orderID, err := parseID(c, "order_id")
	if err != nil {
		return invalidID(c, "order", "removeProduct")
	}

	input, err := h.productInput(c)
	if err != nil {
		return respondError(c, err, "removeProduct")
	}

	order, err := services.RemoveProductFromOrder(c.UserContext(), h.DB, orderID, input.ProductID.Uint64())
	if err != nil {
		return respondError(c, err, "removeProduct")
	}
	return utils.SuccessResponse(c, order, fiber.StatusOK)
}

// ListProducts handles GET /orders/:order_id/products
// @Summary List the products of an order
// @Tags Orders
// @Produce json
// @Param order_id path int true "Order ID"
// @Success 200 {array} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /orders/{order_id}/products [get]
func (h *OrderHandler) ListProducts(c *fiber.Ctx) error {
	orderID, err := parseID(c, "order_id")
	if err != nil {
		return invalidID(c, "order", "listOrderProducts")
	}

	products, err := services.ListOrderProducts(c.UserContext(), h.DB, orderID)
	if err != nil {
		return respondError(c, err, "listOrderProducts")
	}
	return utils.SuccessResponse(c, products, fiber.StatusOK)
}

// productInput parses and validates the {product_id} body shared by add and remove
func (h *OrderHandler) productInput(c *fiber.Ctx) (services.OrderProductInput, error) {
	var input services.OrderProductInput
	if err := parseBody(c, &input); err != nil {
		return input, err
	}
	if fields := validation.Struct(input); fields != nil {
		return input, &services.ValidationError{Message: "Validation failed", Fields: fields}
	}
	return input, nil
}

package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ecommerce-api/internal/services"
	"github.com/localnerve/ecommerce-api/internal/utils"
	"gorm.io/gorm"
)

// ProductHandler handles product routes
type ProductHandler struct {
	DB *gorm.DB
}

// CreateProduct handles POST /products
// @Summary Create a product
// @Tags Products
// @Accept json
// @Produce json
// @Param product body services.ProductInput true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err, "createProduct")
	}

	product, err := services.CreateProduct(c.UserContext(), h.DB, input)
	if err != nil {
		return respondError(c, err, "createProduct")
	}
	return utils.SuccessResponse(c, product, fiber.StatusCreated)
}

// ListProducts handles GET /products
// @Summary List products
// @Tags Products
// @Produce json
// @Success 200 {array} models.Product
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	products, err := services.ListProducts(c.UserContext(), h.DB)
	if err != nil {
		return respondError(c, err, "listProducts")
	}
	return utils.SuccessResponse(c, products, fiber.StatusOK)
}

// GetProduct handles GET /products/:id
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c, "product", "getProduct")
	}

	product, err := services.GetProduct(c.UserContext(), h.DB, id)
	if err != nil {
		return respondError(c, err, "getProduct")
	}
	return utils.SuccessResponse(c, product, fiber.StatusOK)
}

// UpdateProduct handles PUT /products/:id
// @Summary Update a product
// @Description Rename a product, and reprice it when price is given
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body services.ProductUpdate true "Name and optional price"
// @Success 200 {object} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c, "product", "updateProduct")
	}

	var input services.ProductUpdate
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err, "updateProduct")
	}

	product, err := services.UpdateProduct(c.UserContext(), h.DB, id, input)
	if err != nil {
		return respondError(c, err, "updateProduct")
	}
	return utils.SuccessResponse(c, product, fiber.StatusOK)
}

// DeleteProduct handles DELETE /products/:id
// @Summary Delete a product
// @Description Delete a product and remove it from every order
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return invalidID(c, "product", "deleteProduct")
	}

	if err := services.DeleteProduct(c.UserContext(), h.DB, id); err != nil {
		return respondError(c, err, "deleteProduct")
	}
	return utils.MessageResponse(c, fmt.Sprintf("successfully deleted product %d", id))
}

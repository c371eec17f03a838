// handlers_test.go
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

package handlers_test

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ecommerce-api/internal/config"
	"github.com/localnerve/ecommerce-api/internal/handlers"
	"github.com/localnerve/ecommerce-api/internal/models"
	"github.com/localnerve/ecommerce-api/internal/testhelpers"
	"github.com/localnerve/ecommerce-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupApp mounts the routes the way the server does, on a fresh in-memory database
func setupApp(t *testing.T, policy string) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := testhelpers.NewTestDB(t)
	cfg := config.Default()
	cfg.DBType = "sqlite-go"
	cfg.DuplicateAssociation = policy

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	handlers.Register(app, db, cfg)
	app.Use(handlers.NotFound)

	return app, db
}

// TestEndToEnd walks the user, product and order lifecycle through HTTP
func TestEndToEnd(t *testing.T) {
	app, _ := setupApp(t, "ignore")

	resp := testhelpers.DoJSON(t, app, "POST", "/users", map[string]string{
		"name":    "Ann",
		"address": "1 Main St",
		"email":   "ann@x.com",
	})
	testhelpers.AssertStatus(t, resp, fiber.StatusCreated)
	var user models.User
	testhelpers.ParseJSON(t, resp, &user)
	assert.Equal(t, uint64(1), user.ID)

	resp = testhelpers.DoJSON(t, app, "POST", "/products", map[string]interface{}{
		"product_name": "Widget",
		"price":        9.99,
	})
	testhelpers.AssertStatus(t, resp, fiber.StatusCreated)
	var product models.Product
	testhelpers.ParseJSON(t, resp, &product)
	assert.Equal(t, uint64(1), product.ID)

	resp = testhelpers.DoJSON(t, app, "POST", "/orders", map[string]interface{}{"user_id": 1})
	testhelpers.AssertStatus(t, resp, fiber.StatusCreated)
	var order map[string]interface{}
	testhelpers.ParseJSON(t, resp, &order)
	assert.Equal(t, float64(1), order["id"])
	assert.Equal(t, []interface{}{}, order["products"])

	resp = testhelpers.DoJSON(t, app, "POST", "/orders/1/add_product", map[string]interface{}{"product_id": 1})
	testhelpers.AssertStatus(t, resp, fiber.StatusOK)
	var withProduct models.Order
	testhelpers.ParseJSON(t, resp, &withProduct)
	require.Len(t, withProduct.Products, 1)
	assert.Equal(t, "Widget", withProduct.Products[0].ProductName)

	resp = testhelpers.DoJSON(t, app, "GET", "/orders/1/products", nil)
	testhelpers.AssertStatus(t, resp, fiber.StatusOK)
	var products []models.Product
	testhelpers.ParseJSON(t, resp, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].ProductName)

	resp = testhelpers.DoJSON(t, app, "DELETE", "/products/1", nil)
	testhelpers.AssertStatus(t, resp, fiber.StatusOK)
	var deleted utils.MessageResponseStruct
	testhelpers.ParseJSON(t, resp, &deleted)
	assert.Equal(t, "successfully deleted product 1", deleted.Message)

	resp = testhelpers.DoJSON(t, app, "GET", "/orders/1/products", nil)
	testhelpers.AssertStatus(t, resp, fiber.StatusOK)
	products = nil
	testhelpers.ParseJSON(t, resp, &products)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestCreateUserValidation(t *testing.T) {
	app, db := setupApp(t, "ignore")

	resp := testhelpers.DoJSON(t, app, "POST", "/users", map[string]string{"name": "Ann"})
	testhelpers.AssertStatus(t, resp, fiber.StatusBadRequest)

	var body utils.ErrorResponseStruct
	testhelpers.ParseJSON(t, resp, &body)
	assert.Equal(t, "Validation failed", body.Message)
	assert.False(t, body.Ok)
	assert.Len(t, body.Errors, 2)
	assert.Zero(t, testhelpers.CountRows(t, db, &models.User{}))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	app, db := setupApp(t, "ignore")
	existing := testhelpers.CreateTestUser(t, db, "ann")

	resp := testhelpers.DoJSON(t, app, "POST", "/users", map[string]string{
		"name":    "Other",
		"address": "2 Main St",
		"email":   existing.Email,
	})
	testhelpers.AssertStatus(t, resp, fiber.StatusBadRequest)

	var body utils.ErrorResponseStruct
	testhelpers.ParseJSON(t, resp, &body)
	assert.Equal(t, "A user with this email already exists", body.Message)
	assert.Equal(t, int64(1), testhelpers.CountRows(t, db, &models.User{}))
}

func TestMalformedBody(t *testing.T) {
	app, _ := setupApp(t, "ignore")

	resp := testhelpers.DoJSON(t, app, "POST", "/products", `{"product_name": `)
	testhelpers.AssertStatus(t, resp, fiber.StatusBadRequest)

	var body utils.ErrorResponseStruct
	testhelpers.ParseJSON(t, resp, &body)
	assert.Contains(t, body.Message, "Invalid request body")
}

func TestUnknownAndInvalidIDs(t *testing.T) {
	app, _ := setupApp(t, "ignore")

	tests := []struct {
		method  string
		path    string
		message string
	}{
		{"GET", "/users/42", "User 42 not found"},
		{"GET", "/users/abc", "Invalid user id"},
		{"GET", "/products/0", "Invalid product id"},
		{"DELETE", "/products/7", "Product 7 not found"},
		{"GET", "/orders/3", "Order 3 not found"},
		{"GET", "/orders/3/products", "Order 3 not found"},
		{"GET", "/users/9223372036854775807", "User 9223372036854775807 not found"},
		{"GET", "/users/18446744073709551615", "Invalid user id"},
		{"GET", "/products/9223372036854775808", "Invalid product id"},
		{"GET", "/orders/9223372036854775808/products", "Invalid order id"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := testhelpers.DoJSON(t, app, tt.method, tt.path, nil)
			testhelpers.AssertStatus(t, resp, fiber.StatusBadRequest)

			var body utils.ErrorResponseStruct
			testhelpers.ParseJSON(t, resp, &body)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestUpdateUserIgnoresBodyID(t *testing.T) {
	app, db := setupApp(t, "ignore")
	user := testhelpers.CreateTestUser(t, db, "ann")

	resp := testhelpers.DoJSON(t, app, "PUT", "/users/1", map[string]interface{}{
		"id":    99,
		"name":  "Ann B",
		"email": "annb@example.com",
	})
	testhelpers.AssertStatus(t, resp, fiber.StatusOK)

	var updated models.User
	testhelpers.ParseJSON(t, resp, &updated)
	assert.Equal(t, user.ID, updated.ID)
	assert.Equal(t, "Ann B", updated.Name)
	assert.Equal(t, user.Address, updated.Address)
}

func TestUpdateProductPriceOptional(t *testing.T) {
	app, db := setupApp(t, "ignore")
	testhelpers.CreateTestProduct(t, db, "Widget", 9.99)

	resp := testhelpers.DoJSON(t, app, "PUT", "/products/1", map[string]string{"product_name": "Gadget"})
	testhelpers.AssertStatus(t, resp, fiber.StatusOK)

	var product models.Product
	testhelpers.ParseJSON(t, resp, &product)
	assert.Equal(t, "Gadget", product.ProductName)
	assert.InDelta(t, 9.99, product.Price, 1e-9)
}

func TestDeleteUserCascade(t *testing.T) {
	app, db := setupApp(t, "ignore")
	user := testhelpers.CreateTestUser(t, db, "ann")
	testhelpers.CreateTestOrder(t, db, user.ID)

	resp := testhelpers.DoJSON(t, app, "DELETE", "/users/1", nil)
	testhelpers.AssertStatus(t, resp, fiber.StatusConflict)

	resp = testhelpers.DoJSON(t, app, "DELETE", "/users/1?cascade=true", nil)
	testhelpers.AssertStatus(t, resp, fiber.StatusOK)

	var body utils.MessageResponseStruct
	testhelpers.ParseJSON(t, resp, &body)
	assert.Equal(t, "successfully deleted user 1", body.Message)
	assert.Zero(t, testhelpers.CountRows(t, db, &models.Order{}))
}

func TestCreateOrderFlexibleInput(t *testing.T) {
	app, db := setupApp(t, "ignore")
	testhelpers.CreateTestUser(t, db, "ann")

	resp := testhelpers.DoJSON(t, app, "POST", "/orders", map[string]string{
		"user_id":    "1",
		"order_date": "2024-03-01T10:30:00",
	})
	testhelpers.AssertStatus(t, resp, fiber.StatusCreated)

	var order models.Order
	testhelpers.ParseJSON(t, resp, &order)
	assert.True(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC).Equal(order.OrderDate))
}

func TestCreateOrderUnknownUser(t *testing.T) {
	app, db := setupApp(t, "ignore")

	resp := testhelpers.DoJSON(t, app, "POST", "/orders", map[string]interface{}{"user_id": 5})
	testhelpers.AssertStatus(t, resp, fiber.StatusBadRequest)

	var body utils.ErrorResponseStruct
	testhelpers.ParseJSON(t, resp, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "user_id", body.Errors[0].Field)
	assert.Zero(t, testhelpers.CountRows(t, db, &models.Order{}))
}

func TestOutOfRangeBodyIDs(t *testing.T) {
	app, db := setupApp(t, "ignore")
	user := testhelpers.CreateTestUser(t, db, "ann")
	testhelpers.CreateTestOrder(t, db, user.ID)

	tests := []struct {
		path string
		body string
	}{
		{"/orders", `{"user_id": 18446744073709551615}`},
		{"/orders", `{"user_id": "9223372036854775808"}`},
		{"/orders/1/add_product", `{"product_id": 18446744073709551615}`},
	}

	for _, tt := range tests {
		t.Run(tt.path+" "+tt.body, func(t *testing.T) {
			resp := testhelpers.DoJSON(t, app, "POST", tt.path, tt.body)
			testhelpers.AssertStatus(t, resp, fiber.StatusBadRequest)

			var body utils.ErrorResponseStruct
			testhelpers.ParseJSON(t, resp, &body)
			assert.Contains(t, body.Message, "Invalid request body")
		})
	}

	assert.Equal(t, int64(1), testhelpers.CountRows(t, db, &models.Order{}))
	assert.Zero(t, testhelpers.CountRows(t, db, &models.OrderProduct{}))
}

func TestAddProductDuplicatePolicy(t *testing.T) {
	for policy, second := range map[string]int{"ignore": fiber.StatusOK, "reject": fiber.StatusConflict} {
		t.Run(policy, func(t *testing.T) {
			app, db := setupApp(t, policy)
			user := testhelpers.CreateTestUser(t, db, "ann")
			product := testhelpers.CreateTestProduct(t, db, "Widget", 1)
			testhelpers.CreateTestOrder(t, db, user.ID)

			body := map[string]interface{}{"product_id": product.ID}
			resp := testhelpers.DoJSON(t, app, "POST", "/orders/1/add_product", body)
			testhelpers.AssertStatus(t, resp, fiber.StatusOK)

			resp = testhelpers.DoJSON(t, app, "POST", "/orders/1/add_product", body)
			testhelpers.AssertStatus(t, resp, second)

			assert.Equal(t, int64(1), testhelpers.CountRows(t, db, &models.OrderProduct{}))
		})
	}
}

func TestAddProductMissingProductID(t *testing.T) {
	app, db := setupApp(t, "ignore")
	user := testhelpers.CreateTestUser(t, db, "ann")
	testhelpers.CreateTestOrder(t, db, user.ID)

	resp := testhelpers.DoJSON(t, app, "POST", "/orders/1/add_product", map[string]string{})
	testhelpers.AssertStatus(t, resp, fiber.StatusBadRequest)

	var body utils.ErrorResponseStruct
	testhelpers.ParseJSON(t, resp, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "product_id", body.Errors[0].Field)
}

func TestRemoveProductAndDeleteOrder(t *testing.T) {
	app, db := setupApp(t, "ignore")
	user := testhelpers.CreateTestUser(t, db, "ann")
	widget := testhelpers.CreateTestProduct(t, db, "Widget", 1)
	gadget := testhelpers.CreateTestProduct(t, db, "Gadget", 2)
	testhelpers.CreateTestOrder(t, db, user.ID, widget.ID, gadget.ID)

	resp := testhelpers.DoJSON(t, app, "DELETE", "/orders/1/remove_product", map[string]interface{}{"product_id": widget.ID})
	testhelpers.AssertStatus(t, resp, fiber.StatusOK)

	var order models.Order
	testhelpers.ParseJSON(t, resp, &order)
	require.Len(t, order.Products, 1)
	assert.Equal(t, gadget.ID, order.Products[0].ID)
	assert.Equal(t, int64(1), testhelpers.CountRows(t, db, &models.Order{}))

	resp = testhelpers.DoJSON(t, app, "DELETE", "/orders/1/remove_product", map[string]interface{}{"product_id": widget.ID})
	testhelpers.AssertStatus(t, resp, fiber.StatusBadRequest)

	resp = testhelpers.DoJSON(t, app, "DELETE", "/orders/1", nil)
	testhelpers.AssertStatus(t, resp, fiber.StatusOK)
	assert.Zero(t, testhelpers.CountRows(t, db, &models.Order{}))
	assert.Zero(t, testhelpers.CountRows(t, db, &models.OrderProduct{}))
	assert.Equal(t, int64(2), testhelpers.CountRows(t, db, &models.Product{}))
}

func TestListOrders(t *testing.T) {
	app, db := setupApp(t, "ignore")
	user := testhelpers.CreateTestUser(t, db, "ann")
	widget := testhelpers.CreateTestProduct(t, db, "Widget", 1)
	testhelpers.CreateTestOrder(t, db, user.ID, widget.ID)
	testhelpers.CreateTestOrder(t, db, user.ID)

	resp := testhelpers.DoJSON(t, app, "GET", "/orders", nil)
	testhelpers.AssertStatus(t, resp, fiber.StatusOK)

	var orders []models.Order
	testhelpers.ParseJSON(t, resp, &orders)
	require.Len(t, orders, 2)
	assert.Len(t, orders[0].Products, 1)
	assert.Empty(t, orders[1].Products)
}

func TestHealth(t *testing.T) {
	app, _ := setupApp(t, "ignore")

	resp := testhelpers.DoJSON(t, app, "GET", "/health", nil)
	testhelpers.AssertStatus(t, resp, fiber.StatusOK)

	var body map[string]interface{}
	testhelpers.ParseJSON(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestRouteNotFound(t *testing.T) {
	app, _ := setupApp(t, "ignore")

	resp := testhelpers.DoJSON(t, app, "GET", "/nope", nil)
	testhelpers.AssertStatus(t, resp, fiber.StatusNotFound)

	var body utils.ErrorResponseStruct
	testhelpers.ParseJSON(t, resp, &body)
	assert.Equal(t, "/nope", body.URL)
	assert.NotEmpty(t, body.Message)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp := testhelpers.DoJSON(t, app, "GET", "/teapot", nil)
	testhelpers.AssertStatus(t, resp, fiber.StatusTeapot)

	var body utils.ErrorResponseStruct
	testhelpers.ParseJSON(t, resp, &body)
	assert.Equal(t, "short and stout", body.Message)
	assert.Equal(t, "http", body.Type)
}

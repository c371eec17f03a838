package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/ecommerce-api/internal/config"
	"github.com/localnerve/ecommerce-api/internal/services"
	"gorm.io/gorm"
)

// Register mounts every resource route on router
func Register(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	users := &UserHandler{DB: db}
	products := &ProductHandler{DB: db}
	orders := &OrderHandler{
		DB:     db,
		Policy: services.DuplicatePolicyFor(cfg.RejectDuplicateAssociations()),
	}
	health := &HealthHandler{DB: db, Config: cfg}

	router.Get("/health", health.Health)

	router.Post("/users", users.CreateUser)
	router.Get("/users", users.ListUsers)
	router.Get("/users/:id", users.GetUser)
	router.Put("/users/:id", users.UpdateUser)
	router.Delete("/users/:id", users.DeleteUser)

	router.Post("/products", products.CreateProduct)
	router.Get("/products", products.ListProducts)
	router.Get("/products/:id", products.GetProduct)
	router.Put("/products/:id", products.UpdateProduct)
	router.Delete("/products/:id", products.DeleteProduct)

	router.Post("/orders", orders.CreateOrder)
	router.Get("/orders", orders.ListOrders)
	router.Get("/orders/:order_id", orders.GetOrder)
	router.Delete("/orders/:order_id", orders.DeleteOrder)
	router.Post("/orders/:order_id/add_product", orders.AddProduct)
	router.Delete("/orders/:order_id/remove_product", orders.RemoveProduct)
	router.Get("/orders/:order_id/products", orders.ListProducts)
}

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

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/ecommerce-api/internal/models"
	"github.com/localnerve/ecommerce-api/internal/types"
	"github.com/localnerve/ecommerce-api/internal/validation"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// DuplicatePolicy decides what attaching an already attached product does
type DuplicatePolicy int

const (
	// IgnoreDuplicates makes a repeated attach a no-op
	IgnoreDuplicates DuplicatePolicy = iota
	// RejectDuplicates makes a repeated attach a ConflictError
	RejectDuplicates
)

// DuplicatePolicyFor maps the reject flag from configuration to a policy
func DuplicatePolicyFor(reject bool) DuplicatePolicy {
	if reject {
		return RejectDuplicates
	}
	return IgnoreDuplicates
}

func (p DuplicatePolicy) String() string {
	if p == RejectDuplicates {
		return "reject"
	}
	return "ignore"
}

// OrderInput represents input for order creation.
// OrderDate defaults to the current UTC time when omitted.
type OrderInput struct {
	UserID    types.FlexID    `json:"user_id" validate:"required"`
	OrderDate *types.FlexTime `json:"order_date,omitempty"`
}

// OrderProductInput names the product to attach to or detach from an order
type OrderProductInput struct {
	ProductID types.FlexID `json:"product_id" validate:"required"`
}

// orderLine is one product of one order as read from the join
type orderLine struct {
	OrderID     uint64
	ProductID   uint64
	ProductName string
	Price       float64
}

// CreateOrder inserts an order for an existing user
func CreateOrder(ctx context.Context, db *gorm.DB, input OrderInput) (*models.Order, error) {
	if fields := validation.Struct(input); fields != nil {
		return nil, invalid(fields)
	}

	order := models.Order{
		UserID:    input.UserID.Uint64(),
		OrderDate: time.Now().UTC(),
		Products:  []models.Product{},
	}
	if input.OrderDate != nil && !input.OrderDate.IsZero() {
		order.OrderDate = input.OrderDate.UTC()
	}

	err := transaction(ctx, db, "CreateOrder", func(tx *gorm.DB) error {
		if _, err := findUser(tx, order.UserID); err != nil {
			var nf *NotFoundError
			if errors.As(err, &nf) {
				return &ValidationError{
					Message: "User does not exist",
					Fields:  []validation.FieldError{{Field: "user_id", Error: "does not reference an existing user"}},
				}
			}
			return err
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// ListOrders returns every order, with products, ordered by id
func ListOrders(ctx context.Context, db *gorm.DB) ([]models.Order, error) {
	orders := []models.Order{}
	tx := db.WithContext(ctx)

	if err := tx.Clauses(hints.Comment("select", "ListOrders")).
		Order("id").
		Find(&orders).Error; err != nil {
		return nil, classify("ListOrders", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]uint64, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}

	lines, err := loadOrderLines(tx, ids)
	if err != nil {
		return nil, classify("ListOrders", err)
	}

	byOrder := make(map[uint64][]models.Product, len(orders))
	for _, line := range lines {
		byOrder[line.OrderID] = append(byOrder[line.OrderID], models.Product{
			ID:          line.ProductID,
			ProductName: line.ProductName,
			Price:       line.Price,
		})
	}
	for i := range orders {
		orders[i].Products = byOrder[orders[i].ID]
		if orders[i].Products == nil {
			orders[i].Products = []models.Product{}
		}
	}

	return orders, nil
}

// GetOrder retrieves an order by id with its products
func GetOrder(ctx context.Context, db *gorm.DB, id uint64) (*models.Order, error) {
	order, err := loadOrder(db.WithContext(ctx), id)
	if err != nil {
		return nil, classify("GetOrder", err)
	}
	return order, nil
}

// DeleteOrder removes an order and its association rows
func DeleteOrder(ctx context.Context, db *gorm.DB, id uint64) error {
	return transaction(ctx, db, "DeleteOrder", func(tx *gorm.DB) error {
		if _, err := findOrder(tx, id); err != nil {
			return err
		}

		if err := tx.Where("order_id = ?", id).Delete(&models.OrderProduct{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Order{}, id).Error
	})
}

// AddProductToOrder attaches a product to an order and returns the refreshed order.
// What happens when the pair is already attached depends on policy.
func AddProductToOrder(ctx context.Context, db *gorm.DB, orderID, productID uint64, policy DuplicatePolicy) (*models.Order, error) {
	var order *models.Order

	err := transaction(ctx, db, "AddProductToOrder", func(tx *gorm.DB) error {
		if _, err := findOrder(tx, orderID); err != nil {
			return err
		}
		if _, err := findProduct(tx, productID); err != nil {
			return err
		}

		attached, err := isAttached(tx, orderID, productID)
		if err != nil {
			return err
		}

		if attached {
			if policy == RejectDuplicates {
				return &ConflictError{
					Message: fmt.Sprintf("Product %d is already in order %d", productID, orderID),
				}
			}
		} else {
			row := models.OrderProduct{OrderID: orderID, ProductID: productID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		order, err = loadOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrderProducts returns the products of an order ordered by id
func ListOrderProducts(ctx context.Context, db *gorm.DB, orderID uint64) ([]models.Product, error) {
	tx := db.WithContext(ctx)

	if _, err := findOrder(tx, orderID); err != nil {
		return nil, classify("ListOrderProducts", err)
	}

	products, err := orderProducts(tx, orderID)
	if err != nil {
		return nil, classify("ListOrderProducts", err)
	}
	return products, nil
}

// RemoveProductFromOrder detaches one product from an order and returns the refreshed order
func RemoveProductFromOrder(ctx context.Context, db *gorm.DB, orderID, productID uint64) (*models.Order, error) {
	var order *models.Order

	err := transaction(ctx, db, "RemoveProductFromOrder", func(tx *gorm.DB) error {
		if _, err := findOrder(tx, orderID); err != nil {
			return err
		}
		if _, err := findProduct(tx, productID); err != nil {
			return err
		}

		result := tx.Where("order_id = ? AND product_id = ?", orderID, productID).
			Delete(&models.OrderProduct{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &NotFoundError{
				Entity: "product",
				ID:     productID,
				Detail: fmt.Sprintf("Product %d is not in order %d", productID, orderID),
			}
		}

		var err error
		order, err = loadOrder(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func findOrder(tx *gorm.DB, id uint64) (*models.Order, error) {
	var order models.Order
	if err := tx.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order", id)
		}
		return nil, err
	}
	return &order, nil
}

func loadOrder(tx *gorm.DB, id uint64) (*models.Order, error) {
	order, err := findOrder(tx, id)
	if err != nil {
		return nil, err
	}

	if order.Products, err = orderProducts(tx, id); err != nil {
		return nil, err
	}
	return order, nil
}

func orderProducts(tx *gorm.DB, orderID uint64) ([]models.Product, error) {
	products := []models.Product{}
	err := tx.Model(&models.Product{}).
		Clauses(hints.Comment("select", "OrderProducts")).
		Joins("JOIN order_product ON order_product.product_id = products.id").
		Where("order_product.order_id = ?", orderID).
		Order("products.id").
		Find(&products).Error
	return products, err
}

func loadOrderLines(tx *gorm.DB, orderIDs []uint64) ([]orderLine, error) {
	var lines []orderLine
	err := tx.Table("order_product").
		Select("order_product.order_id, products.id AS product_id, products.product_name, products.price").
		Joins("JOIN products ON products.id = order_product.product_id").
		Where("order_product.order_id IN ?", orderIDs).
		Order("order_product.order_id, products.id").
		Scan(&lines).Error
	return lines, err
}

func isAttached(tx *gorm.DB, orderID, productID uint64) (bool, error) {
	var count int64
	err := tx.Model(&models.OrderProduct{}).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Count(&count).Error
	return count > 0, err
}

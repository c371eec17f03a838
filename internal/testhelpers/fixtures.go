// fixtures.go
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

package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/localnerve/ecommerce-api/internal/models"
	"gorm.io/gorm"
)

// CreateTestUser inserts a user directly, bypassing the service rules
func CreateTestUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{
		Name:    name,
		Address: fmt.Sprintf("%s Street", name),
		Email:   fmt.Sprintf("%s@example.com", name),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", name, err)
	}
	return user
}

// CreateTestProduct inserts a product directly
func CreateTestProduct(t *testing.T, db *gorm.DB, name string, price float64) models.Product {
	t.Helper()
	product := models.Product{ProductName: name, Price: price}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to create product %s: %v", name, err)
	}
	return product
}

// CreateTestOrder inserts an order for userID, optionally attaching products
func CreateTestOrder(t *testing.T, db *gorm.DB, userID uint64, productIDs ...uint64) models.Order {
	t.Helper()
	order := models.Order{UserID: userID, OrderDate: time.Now().UTC()}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to create order for user %d: %v", userID, err)
	}
	for _, pid := range productIDs {
		row := models.OrderProduct{OrderID: order.ID, ProductID: pid}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("Failed to attach product %d to order %d: %v", pid, order.ID, err)
		}
	}
	return order
}

// CountRows returns the number of rows in the table backing model
func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count rows of %T: %v", model, err)
	}
	return count
}

// order.go
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

package models

import (
	"time"
)

// Order belongs to exactly one user and holds a set of products.
// Products is never persisted through the order row; the services
// package fills it from the order_product join table.
type Order struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderDate time.Time `gorm:"not null" json:"order_date"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	Products  []Product `gorm:"-" json:"products"`
}

// OrderProduct is a row of the order/product join table.
// The composite primary key keeps each pair unique.
type OrderProduct struct {
	OrderID   uint64 `gorm:"primaryKey;autoIncrement:false"`
	ProductID uint64 `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName overrides the table name for Order
func (Order) TableName() string {
	return "orders"
}

// TableName overrides the table name for OrderProduct
func (OrderProduct) TableName() string {
	return "order_product"
}

// All lists every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&Order{},
		&OrderProduct{},
	}
}

// products.go
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

	"github.com/localnerve/ecommerce-api/internal/models"
	"github.com/localnerve/ecommerce-api/internal/validation"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// ProductInput represents input for product creation
type ProductInput struct {
	ProductName string   `json:"product_name" validate:"required,max=50"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
}

// ProductUpdate represents input for product updates. Price is optional.
type ProductUpdate struct {
	ProductName string   `json:"product_name" validate:"required,max=50"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// CreateProduct inserts a new product
func CreateProduct(ctx context.Context, db *gorm.DB, input ProductInput) (*models.Product, error) {
	if fields := validation.Struct(input); fields != nil {
		return nil, invalid(fields)
	}

	product := models.Product{
		ProductName: input.ProductName,
		Price:       *input.Price,
	}

	err := transaction(ctx, db, "CreateProduct", func(tx *gorm.DB) error {
		return tx.Create(&product).Error
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// ListProducts returns every product ordered by id
func ListProducts(ctx context.Context, db *gorm.DB) ([]models.Product, error) {
	products := []models.Product{}
	if err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "ListProducts")).
		Order("id").
		Find(&products).Error; err != nil {
		return nil, classify("ListProducts", err)
	}
	return products, nil
}

// GetProduct retrieves a product by id
func GetProduct(ctx context.Context, db *gorm.DB, id uint64) (*models.Product, error) {
	product, err := findProduct(db.WithContext(ctx), id)
	if err != nil {
		return nil, classify("GetProduct", err)
	}
	return product, nil
}

// UpdateProduct renames a product and, when given, reprices it
func UpdateProduct(ctx context.Context, db *gorm.DB, id uint64, input ProductUpdate) (*models.Product, error) {
	var product *models.Product

	err := transaction(ctx, db, "UpdateProduct", func(tx *gorm.DB) error {
		var err error
		if product, err = findProduct(tx, id); err != nil {
			return err
		}

		if fields := validation.Struct(input); fields != nil {
			return invalid(fields)
		}

		columns := []string{"product_name"}
		product.ProductName = input.ProductName
		if input.Price != nil {
			product.Price = *input.Price
			columns = append(columns, "price")
		}

		return tx.Model(product).Select(columns).Updates(product).Error
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product and detaches it from every order
func DeleteProduct(ctx context.Context, db *gorm.DB, id uint64) error {
	return transaction(ctx, db, "DeleteProduct", func(tx *gorm.DB) error {
		if _, err := findProduct(tx, id); err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", id).Delete(&models.OrderProduct{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Product{}, id).Error
	})
}

func findProduct(tx *gorm.DB, id uint64) (*models.Product, error) {
	var product models.Product
	if err := tx.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("product", id)
		}
		return nil, err
	}
	return &product, nil
}

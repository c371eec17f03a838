// users.go
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

// UserInput represents input for user creation
type UserInput struct {
	Name    string `json:"name" validate:"required,max=50"`
	Address string `json:"address" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=200"`
}

// UserUpdate represents input for user updates
type UserUpdate struct {
	Name  string `json:"name" validate:"required,max=50"`
	Email string `json:"email" validate:"required,email,max=200"`
}

// CreateUser inserts a new user. The email must not belong to any other user.
func CreateUser(ctx context.Context, db *gorm.DB, input UserInput) (*models.User, error) {
	if fields := validation.Struct(input); fields != nil {
		return nil, invalid(fields)
	}

	user := models.User{
		Name:    input.Name,
		Address: input.Address,
		Email:   input.Email,
	}

	err := transaction(ctx, db, "CreateUser", func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, input.Email, 0); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// ListUsers returns every user ordered by id
func ListUsers(ctx context.Context, db *gorm.DB) ([]models.User, error) {
	users := []models.User{}
	if err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "ListUsers")).
		Order("id").
		Find(&users).Error; err != nil {
		return nil, classify("ListUsers", err)
	}
	return users, nil
}

// GetUser retrieves a user by id
func GetUser(ctx context.Context, db *gorm.DB, id uint64) (*models.User, error) {
	user, err := findUser(db.WithContext(ctx), id)
	if err != nil {
		return nil, classify("GetUser", err)
	}
	return user, nil
}

// UpdateUser replaces the name and email of an existing user
func UpdateUser(ctx context.Context, db *gorm.DB, id uint64, input UserUpdate) (*models.User, error) {
	var user *models.User

	err := transaction(ctx, db, "UpdateUser", func(tx *gorm.DB) error {
		var err error
		if user, err = findUser(tx, id); err != nil {
			return err
		}

		if fields := validation.Struct(input); fields != nil {
			return invalid(fields)
		}

		if err := ensureEmailFree(tx, input.Email, id); err != nil {
			return err
		}

		user.Name = input.Name
		user.Email = input.Email
		return tx.Model(user).Select("name", "email").Updates(user).Error
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes a user. A user with orders is only removed when
// cascade is set, in which case the orders and their product rows go too.
func DeleteUser(ctx context.Context, db *gorm.DB, id uint64, cascade bool) error {
	return transaction(ctx, db, "DeleteUser", func(tx *gorm.DB) error {
		if _, err := findUser(tx, id); err != nil {
			return err
		}

		var orderIDs []uint64
		if err := tx.Model(&models.Order{}).Where("user_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}

		if len(orderIDs) > 0 {
			if !cascade {
				return &ConflictError{Message: "user has orders; delete them first or retry with cascade"}
			}
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderProduct{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", orderIDs).Delete(&models.Order{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

func findUser(tx *gorm.DB, id uint64) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user", id)
		}
		return nil, err
	}
	return &user, nil
}

// ensureEmailFree fails when another user, other than exceptID, owns email
func ensureEmailFree(tx *gorm.DB, email string, exceptID uint64) error {
	var count int64
	query := tx.Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return &ValidationError{
			Message: "A user with this email already exists",
			Fields:  []validation.FieldError{{Field: "email", Error: "is already registered"}},
		}
	}
	return nil
}

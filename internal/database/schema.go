package database

import (
	"github.com/localnerve/ecommerce-api/internal/models"
)

// orderTable migrates the orders table with its foreign key to users.
// The models carry ids only; these migration types add the relations
// GORM needs to emit the constraints, and nothing else reads them.
type orderTable struct {
	models.Order
	User *models.User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (orderTable) TableName() string {
	return "orders"
}

// orderProductTable migrates the join table; deleting either side removes the row
type orderProductTable struct {
	models.OrderProduct
	Order   *orderTable     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Product *models.Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (orderProductTable) TableName() string {
	return "order_product"
}

// migrationModels lists the tables in dependency order
func migrationModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Product{},
		&orderTable{},
		&orderProductTable{},
	}
}

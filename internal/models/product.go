package models

// Product is a catalog item that orders reference through OrderProduct
type Product struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductName string  `gorm:"size:50;not null" json:"product_name"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

package models

// User is a customer account. Email is unique across all users.
type User struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"size:50;not null" json:"name"`
	Address string `gorm:"size:100" json:"address"`
	Email   string `gorm:"size:200;not null;uniqueIndex:idx_users_email" json:"email"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

package models

import "time"

const (
	UserNameIndex       = "uq_users_user_name"
	UserEmailIndex      = "uq_users_email"
	UserEmployeeNoIndex = "uq_users_employee_no"
)

// User is a staff or customer account.
type User struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserName     string    `gorm:"column:user_name;type:varchar(50);not null;uniqueIndex:uq_users_user_name"`
	Email        string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_users_email"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	EmployeeNo   int64     `gorm:"column:employee_no;not null;uniqueIndex:uq_users_employee_no"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string { return "users" }

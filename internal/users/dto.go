package users

import (
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID         int64  `json:"ID"`
	UserName   string `json:"USER_NAME"`
	Email      string `json:"EMAIL"`
	IsActive   bool   `json:"IS_ACTIVE"`
	EmployeeNo int64  `json:"employee_Id"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	UserName     string
	Email        string
	PasswordHash string
	EmployeeNo   int64
	IsActive     *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:         u.ID,
		UserName:   u.UserName,
		Email:      u.Email,
		IsActive:   u.IsActive,
		EmployeeNo: u.EmployeeNo,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return &models.User{
		UserName:     c.UserName,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		IsActive:     isActive,
		EmployeeNo:   c.EmployeeNo,
	}
}

package repository

import (
	"github.com/RoomSageApp/RoomSage/app/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	TouchLastLogin(id uint) error
}

// Repositories holds all repository instances
type Repositories struct {
	User UserRepository
}

package store

import (
	"errors"

	"queue_bot/internal/models"
	"queue_bot/internal/storage"

	"gorm.io/gorm"
)

// CreateUser регистрирует нового пользователя в справочнике.
func CreateUser(displayName, email, passwordHash string) (models.User, error) {
	user := models.User{
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		return models.User{}, storageErr(err)
	}
	return user, nil
}

// GetUser возвращает пользователя по идентификатору.
func GetUser(userID uint) (models.User, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, storageErr(err)
	}
	return user, nil
}

// GetUserByEmail возвращает пользователя по email.
func GetUserByEmail(email string) (models.User, error) {
	var user models.User
	if err := storage.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, storageErr(err)
	}
	return user, nil
}

// GetUserByName возвращает первого пользователя с указанным отображаемым именем.
func GetUserByName(displayName string) (models.User, error) {
	var user models.User
	if err := storage.DB.Where("display_name = ?", displayName).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, storageErr(err)
	}
	return user, nil
}

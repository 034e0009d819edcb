package models

import (
	"time"

	"gorm.io/gorm"
)

// QueueTTL — время жизни очереди с момента создания.
const QueueTTL = 24 * time.Hour

// MaxQueueNameLen — максимальная длина названия очереди.
const MaxQueueNameLen = 100

type User struct {
	gorm.Model
	DisplayName  string `gorm:"index;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}

type Queue struct {
	gorm.Model
	Name      string    `gorm:"not null"`       // Название очереди
	CreatorID uint      `gorm:"index;not null"` // Создатель очереди, только он может её удалить
	Creator   User      `gorm:"foreignKey:CreatorID"`
	ExpiresAt time.Time `gorm:"index;not null"` // Время истечения очереди (created_at + QueueTTL)
}

type QueueMember struct {
	gorm.Model
	QueueID  uint      `gorm:"uniqueIndex:idx_queue_user;index:idx_queue_position;not null"`
	UserID   uint      `gorm:"uniqueIndex:idx_queue_user;index;not null"`
	User     User      `gorm:"foreignKey:UserID"`
	Position int       `gorm:"index:idx_queue_position;not null"` // Текущая позиция в очереди, начиная с 1
	JoinedAt time.Time `gorm:"not null"`
}

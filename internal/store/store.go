package store

import (
	"errors"
	"strings"
	"time"

	"queue_bot/internal/models"
	"queue_bot/internal/storage"

	"gorm.io/gorm"
)

// Все операции применяют предикат "expires_at > now": истёкшая, но ещё не удалённая
// свипером очередь невидима так же, как удалённая. Свипер нужен только для
// освобождения места, читатели на него не полагаются.

// CreateQueue создаёт очередь с TTL 24 часа.
func CreateQueue(name string, creatorID uint) (models.Queue, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > models.MaxQueueNameLen {
		return models.Queue{}, ErrValidation
	}

	queue := models.Queue{
		Name:      name,
		CreatorID: creatorID,
		ExpiresAt: time.Now().Add(models.QueueTTL),
	}
	if err := storage.DB.Create(&queue).Error; err != nil {
		return models.Queue{}, storageErr(err)
	}
	return queue, nil
}

// GetQueue возвращает очередь, если она существует и не истекла.
func GetQueue(queueID uint) (models.Queue, error) {
	var queue models.Queue
	err := storage.DB.
		Where("id = ? AND expires_at > ?", queueID, time.Now()).
		First(&queue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Queue{}, ErrNotFound
		}
		return models.Queue{}, storageErr(err)
	}
	return queue, nil
}

// ListActiveQueues возвращает активные очереди, новые первыми.
func ListActiveQueues() ([]models.Queue, error) {
	var queues []models.Queue
	err := storage.DB.
		Where("expires_at > ?", time.Now()).
		Order("created_at DESC").
		Find(&queues).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return queues, nil
}

// Join добавляет пользователя в хвост очереди и возвращает его позицию.
func Join(queueID, userID uint) (int, error) {
	var position int
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var queue models.Queue
		if err := tx.Where("id = ? AND expires_at > ?", queueID, time.Now()).First(&queue).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return storageErr(err)
		}

		var existing models.QueueMember
		err := tx.Where("queue_id = ? AND user_id = ?", queueID, userID).First(&existing).Error
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storageErr(err)
		}

		var maxPosition int
		row := tx.Model(&models.QueueMember{}).
			Where("queue_id = ?", queueID).
			Select("COALESCE(MAX(position),0)").Row()
		if err := row.Scan(&maxPosition); err != nil {
			return storageErr(err)
		}
		position = maxPosition + 1

		member := models.QueueMember{
			QueueID:  queueID,
			UserID:   userID,
			Position: position,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(&member).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return position, nil
}

// Leave удаляет участника и сдвигает позиции стоящих за ним на единицу.
// Удаление и пересчёт выполняются одной транзакцией: снаружи разрыв
// нумерации не наблюдаем.
func Leave(queueID, userID uint) error {
	return storage.DB.Transaction(func(tx *gorm.DB) error {
		return removeAndRenumber(tx, queueID, userID)
	})
}

func removeAndRenumber(tx *gorm.DB, queueID, userID uint) error {
	var member models.QueueMember
	err := tx.Where("queue_id = ? AND user_id = ?", queueID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotMember
		}
		return storageErr(err)
	}

	// Запись удаляется физически, иначе уникальный индекс (queue_id, user_id)
	// не даст пользователю войти в очередь повторно.
	if err := tx.Unscoped().Delete(&member).Error; err != nil {
		return storageErr(err)
	}

	err = tx.Model(&models.QueueMember{}).
		Where("queue_id = ? AND position > ?", queueID, member.Position).
		UpdateColumn("position", gorm.Expr("position - 1")).Error
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// PeekFront возвращает участника с минимальной позицией.
func PeekFront(queueID uint) (models.QueueMember, error) {
	var member models.QueueMember
	err := storage.DB.
		Preload("User").
		Where("queue_id = ?", queueID).
		Order("position ASC").
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.QueueMember{}, ErrQueueEmpty
		}
		return models.QueueMember{}, storageErr(err)
	}
	return member, nil
}

// GetMember возвращает запись участника очереди.
func GetMember(queueID, userID uint) (models.QueueMember, error) {
	var member models.QueueMember
	err := storage.DB.
		Preload("User").
		Where("queue_id = ? AND user_id = ?", queueID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.QueueMember{}, ErrNotMember
		}
		return models.QueueMember{}, storageErr(err)
	}
	return member, nil
}

// ListMembers возвращает участников очереди в порядке позиций.
func ListMembers(queueID uint) ([]models.QueueMember, error) {
	var members []models.QueueMember
	err := storage.DB.
		Preload("User").
		Where("queue_id = ?", queueID).
		Order("position ASC").
		Find(&members).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return members, nil
}

// MemberCount возвращает число участников очереди.
func MemberCount(queueID uint) (int, error) {
	var count int64
	err := storage.DB.Model(&models.QueueMember{}).
		Where("queue_id = ?", queueID).
		Count(&count).Error
	if err != nil {
		return 0, storageErr(err)
	}
	return int(count), nil
}

// DeleteQueue удаляет очередь вместе с участниками. Проверка прав совмещена с
// удалением: false означает, что запрашивающий не является создателем.
func DeleteQueue(queueID, requesterID uint) (bool, error) {
	authorized := false
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var queue models.Queue
		if err := tx.Where("id = ? AND expires_at > ?", queueID, time.Now()).First(&queue).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return storageErr(err)
		}
		if queue.CreatorID != requesterID {
			return nil
		}

		if err := tx.Unscoped().Where("queue_id = ?", queueID).Delete(&models.QueueMember{}).Error; err != nil {
			return storageErr(err)
		}
		if err := tx.Unscoped().Delete(&queue).Error; err != nil {
			return storageErr(err)
		}
		authorized = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return authorized, nil
}

// RemoveMember удаляет участника по решению создателя очереди, с тем же
// пересчётом позиций, что и Leave. false — запрашивающий не создатель.
func RemoveMember(queueID, targetUserID, requesterID uint) (bool, error) {
	authorized := false
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var queue models.Queue
		if err := tx.Where("id = ? AND expires_at > ?", queueID, time.Now()).First(&queue).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return storageErr(err)
		}
		if queue.CreatorID != requesterID {
			return nil
		}

		if err := removeAndRenumber(tx, queueID, targetUserID); err != nil {
			return err
		}
		authorized = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return authorized, nil
}

// SweepExpired удаляет все истёкшие очереди вместе с участниками и возвращает
// идентификаторы удалённых очередей. Повторный запуск без прошедшего времени
// ничего не находит и ничего не меняет.
func SweepExpired() ([]uint, error) {
	var ids []uint
	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var expired []models.Queue
		if err := tx.Unscoped().Where("expires_at <= ?", time.Now()).Find(&expired).Error; err != nil {
			return storageErr(err)
		}
		if len(expired) == 0 {
			return nil
		}

		for _, q := range expired {
			ids = append(ids, q.ID)
		}
		if err := tx.Unscoped().Where("queue_id IN ?", ids).Delete(&models.QueueMember{}).Error; err != nil {
			return storageErr(err)
		}
		if err := tx.Unscoped().Where("id IN ?", ids).Delete(&models.Queue{}).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

package queue

import (
	"errors"

	"queue_bot/internal/models"
	"queue_bot/internal/store"
)

// ErrNotAuthorized — операция доступна только создателю очереди.
var ErrNotAuthorized = errors.New("only the queue creator may do this")

// Каждая мутирующая операция целиком выполняется под эксклюзивной секцией
// своей очереди: проверка и последующая запись не могут разъехаться с
// параллельным вызовом. Операции над разными очередями не мешают друг другу.
// Состояние между операциями не кэшируется — каждая перечитывает его из базы
// уже под блокировкой.
var queueLocks = newLockTable()

// JoinResult — результат вступления в очередь.
type JoinResult struct {
	Queue    models.Queue
	Position int
	Total    int
}

// Join добавляет пользователя в очередь.
func Join(queueID, userID uint) (JoinResult, error) {
	queueLocks.Lock(queueID)
	defer queueLocks.Unlock(queueID)

	q, err := store.GetQueue(queueID)
	if err != nil {
		return JoinResult{}, err
	}

	position, err := store.Join(queueID, userID)
	if err != nil {
		return JoinResult{}, err
	}

	total, err := store.MemberCount(queueID)
	if err != nil {
		return JoinResult{}, err
	}
	return JoinResult{Queue: q, Position: position, Total: total}, nil
}

// Leave выводит пользователя из очереди.
func Leave(queueID, userID uint) error {
	queueLocks.Lock(queueID)
	defer queueLocks.Unlock(queueID)

	if _, err := store.GetMember(queueID, userID); err != nil {
		return err
	}
	return store.Leave(queueID, userID)
}

// Advance вызывает первого участника очереди: удаляет его и возвращает
// удалённую запись. Уведомление вызванного — забота вызывающего и
// выполняется уже после фиксации удаления.
func Advance(queueID, requesterID uint) (models.QueueMember, error) {
	queueLocks.Lock(queueID)
	defer queueLocks.Unlock(queueID)

	q, err := store.GetQueue(queueID)
	if err != nil {
		return models.QueueMember{}, err
	}
	if q.CreatorID != requesterID {
		return models.QueueMember{}, ErrNotAuthorized
	}

	front, err := store.PeekFront(queueID)
	if err != nil {
		return models.QueueMember{}, err
	}
	if err := store.Leave(queueID, front.UserID); err != nil {
		return models.QueueMember{}, err
	}
	return front, nil
}

// StatusResult — положение пользователя в очереди.
type StatusResult struct {
	Queue    models.Queue
	Position int
	Total    int
}

// Status возвращает позицию пользователя и размер очереди. Только чтение,
// эксклюзивная секция не нужна: атомарности хранилища достаточно.
func Status(queueID, userID uint) (StatusResult, error) {
	q, err := store.GetQueue(queueID)
	if err != nil {
		return StatusResult{}, err
	}
	member, err := store.GetMember(queueID, userID)
	if err != nil {
		return StatusResult{}, err
	}
	total, err := store.MemberCount(queueID)
	if err != nil {
		return StatusResult{}, err
	}
	return StatusResult{Queue: q, Position: member.Position, Total: total}, nil
}

// DeleteQueue удаляет очередь, если запрашивающий — её создатель.
func DeleteQueue(queueID, requesterID uint) error {
	queueLocks.Lock(queueID)
	defer queueLocks.Unlock(queueID)

	ok, err := store.DeleteQueue(queueID, requesterID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAuthorized
	}
	return nil
}

// RemoveMember удаляет участника по решению создателя очереди.
func RemoveMember(queueID, targetUserID, requesterID uint) error {
	queueLocks.Lock(queueID)
	defer queueLocks.Unlock(queueID)

	ok, err := store.RemoveMember(queueID, targetUserID, requesterID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAuthorized
	}
	return nil
}

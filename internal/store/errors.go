package store

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation — некорректные входные данные (пустое или слишком длинное название).
	ErrValidation = errors.New("validation failed")
	// ErrNotFound — очередь не существует или уже истекла.
	ErrNotFound = errors.New("queue not found")
	// ErrUserNotFound — пользователь не зарегистрирован.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyMember — пользователь уже состоит в очереди.
	ErrAlreadyMember = errors.New("user already in queue")
	// ErrNotMember — пользователь не состоит в очереди.
	ErrNotMember = errors.New("user not in queue")
	// ErrQueueEmpty — в очереди нет участников.
	ErrQueueEmpty = errors.New("queue is empty")
	// ErrStorage — неожиданная ошибка базы данных.
	ErrStorage = errors.New("storage failure")
)

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

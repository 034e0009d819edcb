package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"queue_bot/internal/notify"
	"queue_bot/internal/queue"
	"queue_bot/internal/response"
	"queue_bot/internal/storage"
	"queue_bot/internal/store"

	"github.com/gin-gonic/gin"
)

var ctx = context.Background()

type CreateQueueRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateQueueHandler обрабатывает запрос на создание очереди
// @Summary		Создание очереди
// @Description	Создаёт новую очередь, создателем становится текущий пользователь
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			queue	body		CreateQueueRequest	true	"Название очереди"
// @Security		BearerAuth
// @Success		201	{object}	QueueItem	"Созданная очередь"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queues [post]
func CreateQueueHandler(c *gin.Context) {
	var req CreateQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Укажи название очереди",
			Details: err.Error(),
		})
		return
	}

	userID := c.GetUint("userID")
	created, err := store.CreateQueue(req.Name, userID)
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "Название очереди должно быть непустым и не длиннее 100 символов",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка при создании очереди",
			Details: err.Error(),
		})
		return
	}

	storage.InvalidateQueueListCache()

	c.JSON(http.StatusCreated, QueueItem{
		QueueID:     created.ID,
		Name:        created.Name,
		CreatorID:   created.CreatorID,
		CreatedAt:   created.CreatedAt.Format(time.RFC3339),
		ExpiresAt:   created.ExpiresAt.Format(time.RFC3339),
		MemberCount: 0,
	})
}

// QueueItem — очередь в списке активных.
type QueueItem struct {
	QueueID     uint   `json:"queue_id"`
	Name        string `json:"name"`
	CreatorID   uint   `json:"creator_id"`
	CreatedAt   string `json:"created_at"`
	ExpiresAt   string `json:"expires_at"`
	MemberCount int    `json:"member_count"`
}

// ListQueuesHandler обрабатывает запрос на получение списка активных очередей
// @Summary		Список активных очередей
// @Description	Возвращает активные очереди, новые первыми, кэширует результат в Redis
// @Tags			queue
// @Accept			json
// @Produce		json
// @Success		200	{array}		QueueItem	"Список очередей"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queues [get]
func ListQueuesHandler(c *gin.Context) {
	// Проверка кэша
	if storage.RedisClient != nil {
		cached, err := storage.RedisClient.Get(ctx, storage.QueueListCacheKey).Result()
		if err == nil && cached != "" {
			var items []QueueItem
			if err := json.Unmarshal([]byte(cached), &items); err == nil {
				c.JSON(http.StatusOK, items)
				return
			}
		}
	}

	queues, err := store.ListActiveQueues()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка загрузки списка очередей",
			Details: err.Error(),
		})
		return
	}

	items := make([]QueueItem, 0, len(queues))
	for _, q := range queues {
		count, err := store.MemberCount(q.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "DB_ERROR",
				Message: "Ошибка подсчёта участников",
				Details: err.Error(),
			})
			return
		}
		items = append(items, QueueItem{
			QueueID:     q.ID,
			Name:        q.Name,
			CreatorID:   q.CreatorID,
			CreatedAt:   q.CreatedAt.Format(time.RFC3339),
			ExpiresAt:   q.ExpiresAt.Format(time.RFC3339),
			MemberCount: count,
		})
	}

	// Кэширование результата на 30 секунд
	if storage.RedisClient != nil {
		if payload, err := json.Marshal(items); err == nil {
			storage.RedisClient.Set(ctx, storage.QueueListCacheKey, string(payload), 30*time.Second)
		}
	}

	c.JSON(http.StatusOK, items)
}

// JoinQueueHandler обрабатывает запрос на вступление в очередь
// @Summary		Вступление в очередь
// @Description	Добавляет пользователя в хвост очереди и уведомляет наблюдателей
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID очереди"
// @Security		BearerAuth
// @Success		200	{object}	response.JoinResponse	"Успешное вступление в очередь с указанием позиции"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (INVALID_QUEUE_ID, ALREADY_IN_QUEUE)"
// @Failure		404	{object}	response.ErrorResponse	"Очередь не найдена (QUEUE_NOT_FOUND)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queues/{id}/join [post]
func JoinQueueHandler(c *gin.Context) {
	queueIDStr := c.Param("id")
	queueID, err := strconv.ParseUint(queueIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_QUEUE_ID",
			Message: "Неверный идентификатор очереди",
		})
		return
	}

	userID := c.GetUint("userID")
	result, err := queue.Join(uint(queueID), userID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, response.ErrorResponse{
				Code:    "QUEUE_NOT_FOUND",
				Message: "Очередь не найдена",
			})
		case errors.Is(err, store.ErrAlreadyMember):
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "ALREADY_IN_QUEUE",
				Message: "Пользователь уже состоит в этой очереди",
			})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "DB_ERROR",
				Message: "Ошибка добавления в очередь",
				Details: err.Error(),
			})
		}
		return
	}

	notify.QueueEvent(uint(queueID), "user_joined", map[string]interface{}{
		"user_id":  userID,
		"position": result.Position,
	})

	c.JSON(http.StatusOK, response.JoinResponse{
		Message:  "Вступление в очередь прошло успешно",
		Position: result.Position,
		Total:    result.Total,
	})
}

// LeaveQueueHandler обрабатывает запрос на выход из очереди
// @Summary		Выход из очереди
// @Description	Удаляет пользователя из очереди и уведомляет наблюдателей
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID очереди"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse	"Успешный выход из очереди"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (INVALID_QUEUE_ID, NOT_IN_QUEUE)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queues/{id}/leave [post]
func LeaveQueueHandler(c *gin.Context) {
	queueIDStr := c.Param("id")
	queueID, err := strconv.ParseUint(queueIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_QUEUE_ID",
			Message: "Неверный идентификатор очереди",
		})
		return
	}

	userID := c.GetUint("userID")
	if err := queue.Leave(uint(queueID), userID); err != nil {
		if errors.Is(err, store.ErrNotMember) {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "NOT_IN_QUEUE",
				Message: "Активная запись в очереди не найдена",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка при выходе из очереди",
			Details: err.Error(),
		})
		return
	}

	notify.QueueEvent(uint(queueID), "user_left", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Вы успешно вышли из очереди"})
}

// NextHandler обрабатывает вызов следующего участника создателем очереди
// @Summary		Вызов следующего участника
// @Description	Удаляет первого участника очереди и отправляет ему уведомление. Уведомление отправляется уже после фиксации удаления и его неудача не откатывает операцию
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID очереди"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse	"Участник вызван"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (INVALID_QUEUE_ID, QUEUE_EMPTY)"
// @Failure		403	{object}	response.ErrorResponse	"Операция доступна только создателю (NOT_AUTHORIZED)"
// @Failure		404	{object}	response.ErrorResponse	"Очередь не найдена (QUEUE_NOT_FOUND)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queues/{id}/next [post]
func NextHandler(c *gin.Context) {
	queueIDStr := c.Param("id")
	queueID, err := strconv.ParseUint(queueIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_QUEUE_ID",
			Message: "Неверный идентификатор очереди",
		})
		return
	}

	userID := c.GetUint("userID")
	called, err := queue.Advance(uint(queueID), userID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, response.ErrorResponse{
				Code:    "QUEUE_NOT_FOUND",
				Message: "Очередь не найдена",
			})
		case errors.Is(err, queue.ErrNotAuthorized):
			c.JSON(http.StatusForbidden, response.ErrorResponse{
				Code:    "NOT_AUTHORIZED",
				Message: "Только создатель очереди может вызывать следующего",
			})
		case errors.Is(err, store.ErrQueueEmpty):
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "QUEUE_EMPTY",
				Message: "Очередь пуста",
			})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "DB_ERROR",
				Message: "Ошибка при вызове следующего",
				Details: err.Error(),
			})
		}
		return
	}

	// Удаление уже зафиксировано, дальше только побочные уведомления.
	notifyErr := notify.User(called.UserID, uint(queueID), "Твоя очередь подошла! Подходи к сдаче лабораторной работы.")
	notify.QueueEvent(uint(queueID), "user_called", map[string]interface{}{
		"user_id":      called.UserID,
		"display_name": called.User.DisplayName,
	})

	message := "Участник " + called.User.DisplayName + " вызван"
	if notifyErr != nil {
		message = "Участник вызван, но уведомление не удалось отправить"
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: message})
}

// StatusResponse — позиция пользователя в очереди.
type StatusResponse struct {
	QueueID   uint   `json:"queue_id"`
	QueueName string `json:"queue_name"`
	Position  int    `json:"position"`
	Total     int    `json:"total"`
}

// GetQueueStatusHandler обрабатывает запрос на получение своей позиции в очереди
// @Summary		Позиция в очереди
// @Description	Возвращает позицию текущего пользователя и общее число участников
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID очереди"
// @Security		BearerAuth
// @Success		200	{object}	StatusResponse	"Позиция в очереди"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (INVALID_QUEUE_ID, NOT_IN_QUEUE)"
// @Failure		404	{object}	response.ErrorResponse	"Очередь не найдена (QUEUE_NOT_FOUND)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queues/{id}/status [get]
func GetQueueStatusHandler(c *gin.Context) {
	queueIDStr := c.Param("id")
	queueID, err := strconv.ParseUint(queueIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_QUEUE_ID",
			Message: "Неверный идентификатор очереди",
		})
		return
	}

	userID := c.GetUint("userID")
	status, err := queue.Status(uint(queueID), userID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, response.ErrorResponse{
				Code:    "QUEUE_NOT_FOUND",
				Message: "Очередь не найдена",
			})
		case errors.Is(err, store.ErrNotMember):
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "NOT_IN_QUEUE",
				Message: "Ты не в этой очереди",
			})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "DB_ERROR",
				Message: "Ошибка при получении статуса",
				Details: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		QueueID:   status.Queue.ID,
		QueueName: status.Queue.Name,
		Position:  status.Position,
		Total:     status.Total,
	})
}

type Participant struct {
	UserID      uint   `json:"user_id"`
	DisplayName string `json:"display_name"`
	Position    int    `json:"position"`
	JoinedAt    string `json:"joined_at"`
}

// QueueMembersResponse содержит состав очереди.
type QueueMembersResponse struct {
	QueueID      uint          `json:"queue_id"`
	Name         string        `json:"name"`
	CreatorID    uint          `json:"creator_id"`
	ExpiresAt    string        `json:"expires_at"`
	Participants []Participant `json:"participants"`
}

// GetQueueMembersHandler обрабатывает запрос на получение состава очереди
// @Summary		Состав очереди
// @Description	Возвращает участников очереди в порядке позиций
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID очереди"
// @Success		200	{object}	QueueMembersResponse	"Состав очереди"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (INVALID_QUEUE_ID)"
// @Failure		404	{object}	response.ErrorResponse	"Очередь не найдена (QUEUE_NOT_FOUND)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queues/{id}/members [get]
func GetQueueMembersHandler(c *gin.Context) {
	queueIDStr := c.Param("id")
	queueID, err := strconv.ParseUint(queueIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_QUEUE_ID",
			Message: "Неверный идентификатор очереди",
		})
		return
	}

	q, err := store.GetQueue(uint(queueID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.ErrorResponse{
				Code:    "QUEUE_NOT_FOUND",
				Message: "Очередь не найдена",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка загрузки очереди",
			Details: err.Error(),
		})
		return
	}

	members, err := store.ListMembers(uint(queueID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Ошибка загрузки записей очереди",
			Details: err.Error(),
		})
		return
	}

	participants := make([]Participant, 0, len(members))
	for _, member := range members {
		participants = append(participants, Participant{
			UserID:      member.UserID,
			DisplayName: member.User.DisplayName,
			Position:    member.Position,
			JoinedAt:    member.JoinedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, QueueMembersResponse{
		QueueID:      q.ID,
		Name:         q.Name,
		CreatorID:    q.CreatorID,
		ExpiresAt:    q.ExpiresAt.Format(time.RFC3339),
		Participants: participants,
	})
}

// DeleteQueueHandler обрабатывает удаление очереди её создателем
// @Summary		Удаление очереди
// @Description	Удаляет очередь вместе с участниками, доступно только создателю
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID очереди"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse	"Очередь удалена"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (INVALID_QUEUE_ID)"
// @Failure		403	{object}	response.ErrorResponse	"Операция доступна только создателю (NOT_AUTHORIZED)"
// @Failure		404	{object}	response.ErrorResponse	"Очередь не найдена (QUEUE_NOT_FOUND)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queues/{id} [delete]
func DeleteQueueHandler(c *gin.Context) {
	queueIDStr := c.Param("id")
	queueID, err := strconv.ParseUint(queueIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_QUEUE_ID",
			Message: "Неверный идентификатор очереди",
		})
		return
	}

	userID := c.GetUint("userID")
	if err := queue.DeleteQueue(uint(queueID), userID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, response.ErrorResponse{
				Code:    "QUEUE_NOT_FOUND",
				Message: "Очередь не найдена",
			})
		case errors.Is(err, queue.ErrNotAuthorized):
			c.JSON(http.StatusForbidden, response.ErrorResponse{
				Code:    "NOT_AUTHORIZED",
				Message: "Только создатель очереди может её удалить",
			})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "DB_ERROR",
				Message: "Ошибка при удалении очереди",
				Details: err.Error(),
			})
		}
		return
	}

	storage.InvalidateQueueListCache()
	notify.QueueEvent(uint(queueID), "queue_deleted", nil)

	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Очередь удалена"})
}

// RemoveMemberHandler обрабатывает удаление участника создателем очереди
// @Summary		Удаление участника
// @Description	Удаляет указанного участника из очереди, доступно только создателю
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			id		path	string	true	"ID очереди"
// @Param			user_id	path	string	true	"ID участника"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse	"Участник удалён"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (INVALID_QUEUE_ID, INVALID_USER_ID, NOT_IN_QUEUE)"
// @Failure		403	{object}	response.ErrorResponse	"Операция доступна только создателю (NOT_AUTHORIZED)"
// @Failure		404	{object}	response.ErrorResponse	"Очередь не найдена (QUEUE_NOT_FOUND)"
// @Failure		500	{object}	response.ErrorResponse	"Ошибка сервера (DB_ERROR)"
// @Router			/api/queues/{id}/members/{user_id} [delete]
func RemoveMemberHandler(c *gin.Context) {
	queueIDStr := c.Param("id")
	queueID, err := strconv.ParseUint(queueIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_QUEUE_ID",
			Message: "Неверный идентификатор очереди",
		})
		return
	}

	targetIDStr := c.Param("user_id")
	targetID, err := strconv.ParseUint(targetIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_USER_ID",
			Message: "Неверный идентификатор пользователя",
		})
		return
	}

	userID := c.GetUint("userID")
	if err := queue.RemoveMember(uint(queueID), uint(targetID), userID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, response.ErrorResponse{
				Code:    "QUEUE_NOT_FOUND",
				Message: "Очередь не найдена",
			})
		case errors.Is(err, queue.ErrNotAuthorized):
			c.JSON(http.StatusForbidden, response.ErrorResponse{
				Code:    "NOT_AUTHORIZED",
				Message: "Только создатель очереди может удалять участников",
			})
		case errors.Is(err, store.ErrNotMember):
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "NOT_IN_QUEUE",
				Message: "Пользователь не состоит в этой очереди",
			})
		default:
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "DB_ERROR",
				Message: "Ошибка при удалении участника",
				Details: err.Error(),
			})
		}
		return
	}

	notify.QueueEvent(uint(queueID), "user_left", map[string]interface{}{
		"user_id":    uint(targetID),
		"removed_by": userID,
	})

	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Участник удалён из очереди"})
}

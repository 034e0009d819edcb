package handlers

import (
	"net/http"
	"time"

	"queue_bot/internal/models"
	"queue_bot/internal/response"
	"queue_bot/internal/storage"

	"github.com/gin-gonic/gin"
)

// UserQueueItem represents a single queue entry with all required details
type UserQueueItem struct {
	QueueID   uint   `json:"queue_id"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
	JoinedAt  string `json:"joined_at"`
	ExpiresAt string `json:"expires_at"`
	IsCreator bool   `json:"is_creator"`
}

// GetUserQueuesHandler godoc
// @Summary		Получение списка своих очередей
// @Description	Получение списка очередей, в которых пользователь участвует
// @Tags			profile
// @Accept			json
// @Produce		json
// @Security		BearerAuth
// @Success		200	{array}		UserQueueItem	"List of queues the user is part of"
// @Failure		500	{object}	response.ErrorResponse	"Server error (DB_ERROR)"
// @Router			/profile/queues [get]
func GetUserQueuesHandler(c *gin.Context) {
	userID := c.GetUint("userID")

	// Get all queue memberships for the user
	var memberships []models.QueueMember
	if err := storage.DB.
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Error fetching user queue entries",
			Details: err.Error(),
		})
		return
	}

	if len(memberships) == 0 {
		c.JSON(http.StatusOK, []UserQueueItem{})
		return
	}

	// Extract queue IDs
	var queueIDs []uint
	for _, member := range memberships {
		queueIDs = append(queueIDs, member.QueueID)
	}

	// Get queue details, skipping expired queues
	var queues []models.Queue
	if err := storage.DB.
		Where("id IN ? AND expires_at > ?", queueIDs, time.Now()).
		Find(&queues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "DB_ERROR",
			Message: "Error fetching queue details",
			Details: err.Error(),
		})
		return
	}

	// Create a map for quick lookup
	queueMap := make(map[uint]models.Queue)
	for _, q := range queues {
		queueMap[q.ID] = q
	}

	// Build response
	result := make([]UserQueueItem, 0, len(memberships))
	for _, member := range memberships {
		q, exists := queueMap[member.QueueID]
		if !exists {
			continue
		}

		result = append(result, UserQueueItem{
			QueueID:   q.ID,
			Name:      q.Name,
			Position:  member.Position,
			JoinedAt:  member.JoinedAt.Format(time.RFC3339),
			ExpiresAt: q.ExpiresAt.Format(time.RFC3339),
			IsCreator: q.CreatorID == userID,
		})
	}

	c.JSON(http.StatusOK, result)
}

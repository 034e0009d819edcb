package notify

import (
	"log"
	"strconv"

	"queue_bot/internal/ws"
)

// Уведомления — побочный канал. Они отправляются только после того, как
// мутация уже зафиксирована в базе, и их неудача никогда не откатывает
// операцию и не всплывает как её ошибка.

// User отправляет пользователю личное уведомление. Ошибка доставки
// логируется и возвращается только для информирования вызывающего.
func User(userID uint, queueID uint, text string) error {
	err := ws.HubInstance.SendToUser(userID, ws.WSMessage{
		EventType: "your_turn",
		QueueID:   strconv.Itoa(int(queueID)),
		Data: map[string]interface{}{
			"user_id": userID,
			"message": text,
		},
	})
	if err != nil {
		log.Printf("Не удалось отправить уведомление пользователю %d: %v", userID, err)
	}
	return err
}

// QueueEvent рассылает событие очереди её наблюдателям.
func QueueEvent(queueID uint, eventType string, data map[string]interface{}) {
	ws.HubInstance.BroadcastWSMessage(ws.WSMessage{
		EventType: eventType,
		QueueID:   strconv.Itoa(int(queueID)),
		Data:      data,
	})
}

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"pintperfect/pkg/logger"
	"pintperfect/pub-service/internal/app/pubs/infrastructure"
)

// publishEvent сериализует событие и отправляет его в Kafka с ключом = ID сущности.
// Ошибка только логируется: запись в БД уже выполнена, брокер не критичен.
func publishEvent(ctx context.Context, publisher infrastructure.MessagePublisher, key, eventType string, event interface{}) {
	if publisher == nil {
		return
	}

	data, err := json.Marshal(event)
	if err == nil {
		err = publisher.PublishMessage(ctx, key, data)
	}
	if err != nil {
		logger.Warn().
			Err(fmt.Errorf("failed to publish event: %w", err)).
			Str("event_type", eventType).
			Str("key", key).
			Msg("Event was not published")
	}
}

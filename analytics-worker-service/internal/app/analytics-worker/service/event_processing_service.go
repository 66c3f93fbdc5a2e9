package service

import (
	"context"
	"fmt"
	"log"

	"webshop/analytics-worker-service/internal/app/analytics-worker/entity"
	"webshop/analytics-worker-service/internal/app/analytics-worker/repository"
)

// EventProcessingService сохраняет события магазина в хранилище аналитики
type EventProcessingService struct {
	eventRepo repository.EventRepository
}

// NewEventProcessingService создает новый сервис обработки событий
func NewEventProcessingService(eventRepo repository.EventRepository) *EventProcessingService {
	return &EventProcessingService{
		eventRepo: eventRepo,
	}
}

// ProcessOrderEvent обрабатывает событие заказа из Kafka
// Известные типы событий сохраняются в MongoDB, неизвестные пропускаются
func (s *EventProcessingService) ProcessOrderEvent(ctx context.Context, event *entity.OrderEvent) error {
	switch event.EventType {
	case entity.EventTypeOrderCreated:
		if err := s.eventRepo.SaveOrderEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to store order event: %w", err)
		}

		log.Printf("Stored ORDER_CREATED event for order %s (total: %.2f, items: %d)",
			event.OrderID, event.TotalAmount, event.ItemsCount)
		return nil
	default:
		log.Printf("Unknown order event type: %s for order %s, skipping", event.EventType, event.OrderID)
		return nil
	}
}

// ProcessReviewEvent обрабатывает событие отзыва из Kafka
func (s *EventProcessingService) ProcessReviewEvent(ctx context.Context, event *entity.ReviewEvent) error {
	switch event.EventType {
	case entity.EventTypeReviewCreated:
		if err := s.eventRepo.SaveReviewEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to store review event: %w", err)
		}

		log.Printf("Stored REVIEW_CREATED event for product %s (rating: %d)",
			event.ProductID, event.Rating)
		return nil
	default:
		log.Printf("Unknown review event type: %s for review %s, skipping", event.EventType, event.ReviewID)
		return nil
	}
}

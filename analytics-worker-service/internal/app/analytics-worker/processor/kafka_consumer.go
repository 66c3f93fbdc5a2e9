package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"webshop/analytics-worker-service/internal/app/analytics-worker/entity"
	"webshop/analytics-worker-service/internal/app/analytics-worker/service"
	"webshop/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// KafkaConsumer обрабатывает события аналитики из одного Kafka топика
// Для топиков order_events и review_events создаются отдельные экземпляры
type KafkaConsumer struct {
	reader   *kafka.Reader
	eventSvc service.EventProcessingServiceInterface
	topic    string
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	eventSvc service.EventProcessingServiceInterface,
) *KafkaConsumer {
	// Настраиваем Kafka reader
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    minBytes,         // Минимум байт для fetch запроса
		MaxBytes:    maxBytes,         // Максимум байт для fetch запроса
		StartOffset: kafka.LastOffset, // Начинаем читать с последнего сообщения
		// Настройки для автоматического коммита offset
		CommitInterval: time.Second,
		// Таймауты
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		eventSvc: eventSvc,
		topic:    topic,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	log.Printf("Starting Kafka consumer for topic %s...", c.topic)
	go c.consume(ctx)
}

// Stop останавливает consumer
func (c *KafkaConsumer) Stop() {
	log.Printf("Stopping Kafka consumer for topic %s...", c.topic)
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	log.Printf("Kafka consumer for topic %s stopped", c.topic)
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			// Читаем сообщение с таймаутом
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				// Если контекст был отменен, выходим
				if ctx.Err() != nil {
					return
				}

				// Логируем ошибку и продолжаем
				log.Printf("Error fetching message from %s: %v", c.topic, err)
				time.Sleep(time.Second)
				continue
			}

			// Обрабатываем сообщение
			start := time.Now()
			err = c.processMessage(ctx, message)
			metrics.WorkerProcessingDuration.Observe(time.Since(start).Seconds())

			if err != nil {
				metrics.WorkerEventsProcessed.WithLabelValues(c.topic, "failed").Inc()
				log.Printf("Error processing message from %s: %v", c.topic, err)
				// Не коммитим offset при ошибке - сообщение будет повторно обработано
			} else {
				metrics.WorkerEventsProcessed.WithLabelValues(c.topic, "success").Inc()
				// Коммитим offset после успешной обработки
				if err := c.reader.CommitMessages(ctx, message); err != nil {
					log.Printf("Error committing message from %s: %v", c.topic, err)
				}
			}
		}
	}
}

// processMessage обрабатывает одно сообщение из Kafka
// Тип события определяется по полю event_type, поэтому consumer не привязан к топику
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var envelope struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(message.Value, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	switch envelope.EventType {
	case entity.EventTypeOrderCreated:
		var event entity.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal order event: %w", err)
		}

		log.Printf("Received %s event for order %s (offset: %d, partition: %d)",
			event.EventType, event.OrderID, message.Offset, message.Partition)

		if err := c.eventSvc.ProcessOrderEvent(ctx, &event); err != nil {
			return fmt.Errorf("failed to process order event: %w", err)
		}
		return nil

	case entity.EventTypeReviewCreated:
		var event entity.ReviewEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal review event: %w", err)
		}

		log.Printf("Received %s event for review %s (offset: %d, partition: %d)",
			event.EventType, event.ReviewID, message.Offset, message.Partition)

		if err := c.eventSvc.ProcessReviewEvent(ctx, &event); err != nil {
			return fmt.Errorf("failed to process review event: %w", err)
		}
		return nil

	default:
		// Неизвестные события пропускаем с коммитом, чтобы не блокировать партицию
		log.Printf("Unknown event type %q in topic %s, skipping", envelope.EventType, message.Topic)
		return nil
	}
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-cep/internal/entity"
)

type LookupRequest struct {
	RequestID string `json:"request_id"`
	ZipCode   string `json:"zip_code"`
}

type LookupResult struct {
	RequestID string          `json:"request_id"`
	ZipCode   string          `json:"zip_code"`
	Found     bool            `json:"found"`
	Address   *entity.Address `json:"address,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Publisher é o pedaço do *amqp.Channel que o producer usa.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

// PublishLookup enfileira uma consulta e devolve o request_id gerado.
func (p *RabbitMQProducer) PublishLookup(ctx context.Context, zipCode string) (string, error) {
	zipCode = strings.TrimSpace(zipCode)
	if zipCode == "" {
		return "", fmt.Errorf("zip code vazio")
	}

	req := LookupRequest{
		RequestID: uuid.New().String(),
		ZipCode:   zipCode,
	}
	if err := p.publish(ctx, LookupKey, req.RequestID, req); err != nil {
		return "", err
	}
	return req.RequestID, nil
}

func (p *RabbitMQProducer) PublishResult(ctx context.Context, result LookupResult) error {
	return p.publish(ctx, ResultKey, result.RequestID, result)
}

func (p *RabbitMQProducer) publish(ctx context.Context, key, correlationID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		key,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: correlationID,
			Body:          body,
			DeliveryMode:  amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-cep/internal/entity"
	"github.com/xavierca1/ligue-cep/internal/usecase"
)

type AddressSearcher interface {
	Execute(ctx context.Context, zipCode string) (*entity.Address, error)
}

type ResultPublisher interface {
	PublishResult(ctx context.Context, result LookupResult) error
}

type Worker struct {
	Channel   *amqp.Channel
	Searcher  AddressSearcher
	Publisher ResultPublisher
	Log       logrus.FieldLogger
}

func NewWorker(ch *amqp.Channel, searcher AddressSearcher, publisher ResultPublisher, log logrus.FieldLogger) *Worker {
	return &Worker{
		Channel:   ch,
		Searcher:  searcher,
		Publisher: publisher,
		Log:       log,
	}
}

// Start consome a fila até o ctx acabar ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual é mais seguro)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Log.WithField("queue", queueName).Info("worker aguardando consultas de CEP")

	for {
		select {
		case <-ctx.Done():
			w.Log.Info("worker encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal do RabbitMQ fechado")
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	err := w.processMessage(ctx, d.Body)
	switch {
	case err == nil:
		d.Ack(false)
	case ctx.Err() != nil:
		// Worker encerrando no meio da consulta: devolve para a fila.
		w.Log.WithError(err).Info("consulta interrompida, mensagem devolvida")
		d.Nack(false, true)
	default:
		w.Log.WithError(err).Warn("mensagem rejeitada")
		// Nack sem requeue: vai para a DLQ.
		d.Nack(false, false)
	}
}

// processMessage só devolve erro quando a mensagem não presta ou não deu
// para publicar o resultado. CEP não encontrado é resultado normal.
func (w *Worker) processMessage(ctx context.Context, body []byte) error {
	var req LookupRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("json inválido: %w", err)
	}
	if req.ZipCode == "" {
		return fmt.Errorf("zip_code ausente (request %s)", req.RequestID)
	}

	log := w.Log.WithFields(logrus.Fields{"request_id": req.RequestID, "zip_code": req.ZipCode})
	log.Debug("processando consulta")

	result := LookupResult{
		RequestID: req.RequestID,
		ZipCode:   entity.NormalizeCEP(req.ZipCode),
	}

	address, err := w.Searcher.Execute(ctx, req.ZipCode)
	switch {
	case err == nil:
		result.Found = true
		result.Address = address
	case usecase.IsZipCodeNotFound(err):
		result.Error = err.Error()
	default:
		return fmt.Errorf("erro inesperado na consulta: %w", err)
	}

	if err := w.Publisher.PublishResult(ctx, result); err != nil {
		return err
	}

	log.WithField("found", result.Found).Info("consulta processada")
	return nil
}

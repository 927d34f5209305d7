package notification

import (
	"context"
	"sync"

	"clinicore-service/internal/app/contracts"
	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var (
	notificationPublisherInstance contracts.NotificationPublisher
	onceNotificationPublisher     sync.Once
)

type rabbitMQPublisher struct {
	Connection *amqp091.Connection
	QueueName  string
	Log        *zap.Logger
}

func NewRabbitMQPublisher(connection *amqp091.Connection, logger *zap.Logger) contracts.NotificationPublisher {
	onceNotificationPublisher.Do(func() {
		instance := &rabbitMQPublisher{
			Connection: connection,
			QueueName:  constvars.QueueNotifications,
			Log:        logger,
		}
		notificationPublisherInstance = instance
	})
	return notificationPublisherInstance
}

func (p *rabbitMQPublisher) Publish(ctx context.Context, event contracts.NotificationEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	p.Log.Info("rabbitMQPublisher.Publish called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("event_type", event.Type),
	)

	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	channel, err := p.Connection.Channel()
	if err != nil {
		p.Log.Error("rabbitMQPublisher.Publish error opening channel",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrRabbitPublish(err)
	}
	defer channel.Close()

	_, err = channel.QueueDeclare(p.QueueName, true, false, false, false, nil)
	if err != nil {
		p.Log.Error("rabbitMQPublisher.Publish error declaring queue",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrRabbitPublish(err)
	}

	err = channel.PublishWithContext(ctx, "", p.QueueName, false, false, amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		DeliveryMode: amqp091.Persistent,
		Body:         body,
	})
	if err != nil {
		p.Log.Error("rabbitMQPublisher.Publish error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrRabbitPublish(err)
	}

	p.Log.Info("rabbitMQPublisher.Publish succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("event_type", event.Type),
	)
	return nil
}

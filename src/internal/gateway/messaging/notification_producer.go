package messaging

import (
	"booking-service/src/internal/model"
	"booking-service/src/pkg/kafka"
	"booking-service/src/pkg/log"
)

const NotificationTopic = "booking-notifications"

// NotificationProducer fans booking lifecycle events out to the shared
// notification topic. Events are keyed by recipient id so one user's
// notifications land on a single partition in order.
type NotificationProducer struct {
	Producer[*model.NotificationEvent]
}

func NewNotificationProducer(producer kafka.Producer, log log.Log) *NotificationProducer {
	return &NotificationProducer{
		Producer[*model.NotificationEvent]{
			Producer: producer,
			Topic:    NotificationTopic,
			Log:      log,
		},
	}
}

func (p *NotificationProducer) SendNotification(event *model.NotificationEvent) error {
	return p.Send(event)
}

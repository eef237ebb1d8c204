package services

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// Routing keys of the domain events published after successful writes.
const (
	EventUserCreated     = "user.created"
	EventStoreCreated    = "store.created"
	EventRatingSubmitted = "rating.submitted"
)

// EventPublisher delivers a domain event. Implementations must be safe for
// concurrent use.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// publishEvent sends payload best-effort: the write it describes has already
// committed, so failures are logged and never returned.
func publishEvent(p EventPublisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).WithField("event", routingKey).Warn("failed to marshal event")
		return
	}
	if err := p.Publish(routingKey, body); err != nil {
		log.WithError(err).WithField("event", routingKey).Warn("failed to publish event")
		return
	}
	log.WithField("event", routingKey).Debug("event published")
}

type userCreatedEvent struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"`
}

type storeCreatedEvent struct {
	StoreID uint  `json:"storeId"`
	OwnerID *uint `json:"ownerId,omitempty"`
}

type ratingSubmittedEvent struct {
	UserID  uint `json:"userId"`
	StoreID uint `json:"storeId"`
	Rating  int  `json:"rating"`
}

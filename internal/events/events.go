package events

import (
	"context"

	"github.com/avi-perl/posthole/internal/model"
)

// Event topic constants
const (
	TopicItemCreated = "posthole.item.created"
	TopicItemUpdated = "posthole.item.updated"
	TopicItemDeleted = "posthole.item.deleted"
)

// Event types

type ItemCreated struct {
	Item *model.Item `json:"item"`
}

type ItemUpdated struct {
	Item    *model.Item    `json:"item"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type ItemDeleted struct {
	ItemID    string `json:"item_id"`
	Model     string `json:"model"`
	Permanent bool   `json:"permanent"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

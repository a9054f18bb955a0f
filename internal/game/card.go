package game

import (
	"cardmud/server/internal/models"

	"github.com/google/uuid"
)

// CardInstance is one physical copy of a catalog card at a table. Two
// copies of the same catalog card are distinct instances; the instance
// identity never changes as the card moves between zones.
type CardInstance struct {
	ID     uuid.UUID
	Card   *models.Card
	tapped bool
}

// NewCardInstance wraps a catalog card into a fresh untapped instance.
func NewCardInstance(card *models.Card) *CardInstance {
	return &CardInstance{ID: uuid.New(), Card: card}
}

func (c *CardInstance) Name() string { return c.Card.Name }

func (c *CardInstance) Tapped() bool { return c.tapped }

// Tap marks the card tapped. Tapping an already-tapped card reports
// ErrAlreadyInState and leaves it tapped.
func (c *CardInstance) Tap() error {
	if c.tapped {
		return ErrAlreadyInState
	}
	c.tapped = true
	return nil
}

// Untap clears the tapped flag, reporting ErrAlreadyInState for a card
// that is not tapped.
func (c *CardInstance) Untap() error {
	if !c.tapped {
		return ErrAlreadyInState
	}
	c.tapped = false
	return nil
}

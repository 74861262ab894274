// Package domain contains core concepts of the gift exchange.
// This file defines Participant entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"fmt"
	"secret-santa/errors"
	"strconv"
	"time"
)

// ParticipantID is both the record key and the conversational endpoint address.
type ParticipantID int64

func (id ParticipantID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// City labels one of the two groups used as pairing sides.
type City string

// CityGroups holds the two labels participants can choose from.
type CityGroups struct {
	A City `validate:"required,nefield=B"`
	B City `validate:"required"`
}

func (g CityGroups) Contains(c City) bool {
	return c != "" && (c == g.A || c == g.B)
}

// Parse maps a selection value to one of the two labels.
func (g CityGroups) Parse(label string) (City, error) {
	c := City(label)
	if !g.Contains(c) {
		return "", fmt.Errorf("%w: %q", errors.ErrInvalidCity, label)
	}
	return c, nil
}

func (g CityGroups) All() []City {
	return []City{g.A, g.B}
}

// Participant is one registered identity.
// Recipient and Giver are identity references resolved through the store,
// never in-memory pointers to sibling records.
type Participant struct {
	ID        ParticipantID  `json:"id"`
	Nickname  string         `json:"nickname"`
	Username  string         `json:"username"`
	Wish      string         `json:"wish"`
	City      City           `json:"city"`
	State     State          `json:"state"`
	Recipient *ParticipantID `json:"recipient,omitempty"`
	Giver     *ParticipantID `json:"giver,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewParticipant synthesises the record of an identity seen for the first time.
// The handle defaults to the decimal id when the transport does not know one.
func NewParticipant(id ParticipantID, handle string, at time.Time) Participant {
	if handle == "" {
		handle = id.String()
	}
	return Participant{
		ID:        id,
		Username:  handle,
		State:     StateStart,
		CreatedAt: at.UTC(),
	}
}

func (p Participant) HasWish() bool {
	return p.Wish != ""
}

// DisplayName is what a giver sees about their recipient.
func (p Participant) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.Username
}

func (p Participant) IsPaired() bool {
	return p.Recipient != nil && p.Giver != nil
}

// AssignRecipient links p as the giver of child.
func (p *Participant) AssignRecipient(child *Participant) {
	childID, selfID := child.ID, p.ID
	p.Recipient = &childID
	child.Giver = &selfID
}

// Clone returns a copy that shares no references with p.
func (p Participant) Clone() Participant {
	c := p
	if p.Recipient != nil {
		r := *p.Recipient
		c.Recipient = &r
	}
	if p.Giver != nil {
		g := *p.Giver
		c.Giver = &g
	}
	return c
}

// Equal compares values, dereferencing the identity references.
func (p Participant) Equal(o Participant) bool {
	return p.ID == o.ID &&
		p.Nickname == o.Nickname &&
		p.Username == o.Username &&
		p.Wish == o.Wish &&
		p.City == o.City &&
		p.State == o.State &&
		sameRef(p.Recipient, o.Recipient) &&
		sameRef(p.Giver, o.Giver) &&
		p.CreatedAt.Equal(o.CreatedAt)
}

// CheckPairing verifies that the record is not paired with itself.
func (p Participant) CheckPairing() error {
	if p.Recipient != nil && *p.Recipient == p.ID {
		return fmt.Errorf("participant %d is its own recipient", p.ID)
	}
	if p.Giver != nil && *p.Giver == p.ID {
		return fmt.Errorf("participant %d is its own giver", p.ID)
	}
	return nil
}

func sameRef(a, b *ParticipantID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

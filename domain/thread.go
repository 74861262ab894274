// Package domain contains core concepts of the gift exchange.
// This file defines relay Threads, the accumulated history between a giver
// and a recipient. Authors are stored as role placeholders, never as ids.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SantaPlaceholder = "$santa"
	ChildPlaceholder = "$child"
)

// ThreadKey identifies the single thread of a giver/recipient pair.
type ThreadKey struct {
	Santa ParticipantID
	Child ParticipantID
}

func (k ThreadKey) String() string {
	return fmt.Sprintf("%d:%d", k.Santa, k.Child)
}

type Thread struct {
	ID        uuid.UUID `json:"id"`
	Key       ThreadKey `json:"key"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewThread(key ThreadKey, at time.Time) Thread {
	return Thread{ID: uuid.New(), Key: key, CreatedAt: at.UTC(), UpdatedAt: at.UTC()}
}

// Append adds one entry after the existing history, newline separated.
func (t *Thread) Append(entry string, at time.Time) {
	if t.Text == "" {
		t.Text = entry
	} else {
		t.Text = t.Text + "\n" + entry
	}
	t.UpdatedAt = at.UTC()
}

// Entry tags a message with the placeholder of the role that wrote it.
func Entry(author Role, text string) string {
	return author.Placeholder() + ": " + text
}

// Render substitutes role placeholders with the words chosen for the viewer.
func (t Thread) Render(santaWord, childWord string) string {
	return strings.NewReplacer(
		SantaPlaceholder, santaWord,
		ChildPlaceholder, childWord,
	).Replace(t.Text)
}

// Role is the side a participant plays in one relationship.
type Role uint8

const (
	RoleSanta Role = iota
	RoleChild
)

func (r Role) Placeholder() string {
	if r == RoleSanta {
		return SantaPlaceholder
	}
	return ChildPlaceholder
}

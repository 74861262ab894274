// Package relay carries free text between a participant and their counterpart.
// Authors are recorded by role only, so a thread never exposes who wrote it.
package relay

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"secret-santa/domain"
	"secret-santa/errors"
	"secret-santa/moderation"
	"secret-santa/repositories"
	"sync"
	"time"
)

// Direction selects the counterpart a message is addressed to.
type Direction uint8

const (
	ToRecipient Direction = iota
	ToGiver
)

func (d Direction) String() string {
	if d == ToRecipient {
		return "to_recipient"
	}
	return "to_giver"
}

// Reviewer sanitizes text before it leaves its author.
type Reviewer interface {
	Review(text string) moderation.Verdict
}

// Relayed describes one stored message and where it must be delivered.
type Relayed struct {
	Key    domain.ThreadKey
	Target domain.ParticipantID
	Text   string
}

// Router is shared by every event worker. The santa and the child of a pair
// are usually handled by different workers, so appends are serialized.
type Router struct {
	mu           *sync.Mutex
	participants repositories.IParticipantRepository
	threads      repositories.IThreadRepository
	reviewer     Reviewer
	log          *slog.Logger
	now          func() time.Time
}

func NewRouter(
	participants repositories.IParticipantRepository,
	threads repositories.IThreadRepository,
	reviewer Reviewer,
	log *slog.Logger,
	now func() time.Time) Router {
	if now == nil {
		now = time.Now
	}
	return Router{mu: &sync.Mutex{}, participants: participants, threads: threads, reviewer: reviewer, log: log, now: now}
}

// Route resolves the thread key and delivery target for a direction.
func Route(from domain.Participant, dir Direction) (domain.ThreadKey, domain.ParticipantID, error) {
	switch dir {
	case ToRecipient:
		if from.Recipient == nil {
			return domain.ThreadKey{}, 0, fmt.Errorf("%w: %d has no recipient", errors.ErrCounterpartNotAssigned, from.ID)
		}
		return domain.ThreadKey{Santa: from.ID, Child: *from.Recipient}, *from.Recipient, nil
	default:
		if from.Giver == nil {
			return domain.ThreadKey{}, 0, fmt.Errorf("%w: %d has no giver", errors.ErrCounterpartNotAssigned, from.ID)
		}
		return domain.ThreadKey{Santa: *from.Giver, Child: from.ID}, *from.Giver, nil
	}
}

// Relay appends text to the single thread of the pair, creating it on the
// first message, and returns the counterpart endpoint to deliver to.
func (r Router) Relay(from domain.Participant, dir Direction, text string) (Relayed, error) {
	key, target, err := Route(from, dir)
	if err != nil {
		return Relayed{}, err
	}
	if _, err = r.participants.GetParticipant(target); err != nil {
		if stderrors.Is(err, errors.ErrParticipantNotFound) {
			return Relayed{}, fmt.Errorf("%w: %d", errors.ErrCounterpartNotFound, target)
		}
		return Relayed{}, err
	}

	verdict := r.reviewer.Review(text)

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()

	thread, err := r.threads.GetThread(key)
	switch {
	case stderrors.Is(err, errors.ErrThreadNotFound):
		thread = domain.NewThread(key, now)
	case err != nil:
		return Relayed{}, err
	}

	author := domain.RoleSanta
	if dir == ToGiver {
		author = domain.RoleChild
	}
	thread.Append(domain.Entry(author, verdict.Text), now)
	if err = r.threads.SaveThread(thread); err != nil {
		return Relayed{}, err
	}

	r.log.Debug("Message relayed", "thread", thread.ID, "direction", dir, "lang", verdict.Lang)
	return Relayed{Key: key, Target: target, Text: verdict.Text}, nil
}

// History returns the thread of the pair, or false before the first message.
func (r Router) History(from domain.Participant, dir Direction) (domain.Thread, bool, error) {
	key, _, err := Route(from, dir)
	if err != nil {
		return domain.Thread{}, false, err
	}
	thread, err := r.threads.GetThread(key)
	if stderrors.Is(err, errors.ErrThreadNotFound) {
		return domain.Thread{}, false, nil
	}
	if err != nil {
		return domain.Thread{}, false, err
	}
	return thread, true, nil
}

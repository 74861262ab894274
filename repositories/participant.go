//go:generate go run go.uber.org/mock/mockgen -source=participant.go -destination=../mocks/mock_participant_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"secret-santa/domain"
	"secret-santa/errors"

	"github.com/dgraph-io/badger/v4"
)

const participantPrefix = "participant:"

type IParticipantRepository interface {
	GetParticipant(id domain.ParticipantID) (domain.Participant, error)
	SaveParticipant(p domain.Participant) error
	SaveParticipants(ps []domain.Participant) error
	ListParticipants() ([]domain.Participant, error)
}

type ParticipantRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewParticipantRepository(db *badger.DB, log *slog.Logger) ParticipantRepository {
	return ParticipantRepository{db: db, log: log}
}

func participantKey(id domain.ParticipantID) []byte {
	return []byte(fmt.Sprintf("%s%d", participantPrefix, id))
}

// GetParticipant returns errors.ErrParticipantNotFound for unseen identities.
func (r ParticipantRepository) GetParticipant(id domain.ParticipantID) (domain.Participant, error) {
	var p domain.Participant
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(participantKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Participant{}, fmt.Errorf("%w: %d", errors.ErrParticipantNotFound, id)
	}
	if err != nil {
		return domain.Participant{}, err
	}
	return p, nil
}

// SaveParticipant upserts one record.
func (r ParticipantRepository) SaveParticipant(p domain.Participant) error {
	return r.SaveParticipants([]domain.Participant{p})
}

// SaveParticipants writes every record in one transaction, so a bulk
// write-back is either fully visible or not at all.
func (r ParticipantRepository) SaveParticipants(ps []domain.Participant) error {
	return r.db.Update(func(txn *badger.Txn) error {
		for _, p := range ps {
			if err := p.CheckPairing(); err != nil {
				return err
			}
			bytes, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("marshal failed: %w", err)
			}
			if err = txn.Set(participantKey(p.ID), bytes); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListParticipants reads every record from a single snapshot.
func (r ParticipantRepository) ListParticipants() ([]domain.Participant, error) {
	var participants []domain.Participant
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(participantPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var p domain.Participant
				if err := json.Unmarshal(val, &p); err != nil {
					return fmt.Errorf("unmarshal %s: %w", item.Key(), err)
				}
				participants = append(participants, p)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Debug("Participants listed", "count", len(participants))
	return participants, nil
}

//go:generate go run go.uber.org/mock/mockgen -source=thread.go -destination=../mocks/mock_thread_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"secret-santa/domain"
	"secret-santa/errors"

	"github.com/dgraph-io/badger/v4"
)

type IThreadRepository interface {
	GetThread(key domain.ThreadKey) (domain.Thread, error)
	SaveThread(t domain.Thread) error
}

type ThreadRepository struct {
	db *badger.DB
}

func NewThreadRepository(db *badger.DB) ThreadRepository {
	return ThreadRepository{db: db}
}

// threadKey is formatted as "thread:{santa}:{child}": one record per direction.
func threadKey(key domain.ThreadKey) []byte {
	return []byte("thread:" + key.String())
}

// GetThread returns errors.ErrThreadNotFound before the first message.
func (r ThreadRepository) GetThread(key domain.ThreadKey) (domain.Thread, error) {
	var t domain.Thread
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(threadKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &t)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Thread{}, fmt.Errorf("%w: %s", errors.ErrThreadNotFound, key)
	}
	return t, err
}

// SaveThread overwrites the record stored under the thread key.
// Appending is done by the caller on the value it read.
func (r ThreadRepository) SaveThread(t domain.Thread) error {
	bytes, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(threadKey(t.Key), bytes)
	})
}

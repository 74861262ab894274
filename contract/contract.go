//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"secret-santa/domain"
	"secret-santa/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging during supervision, so the Worker interface stays minimal.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventHandler processes one inbound event and returns what must be sent.
// An error means nothing was persisted and nothing must be delivered.
type EventHandler interface {
	Handle(ctx context.Context, in event.Inbound) ([]domain.Delivery, error)
}

// DeliverySink is the outbound side of a transport.
type DeliverySink interface {
	Deliver(ctx context.Context, d domain.Delivery) error
}

// Package domain holds typed identifiers shared across modules.
//
// IDs are distinct types over uuid.UUID so the compiler rejects cross-type
// assignment. Construct via the Parse functions at trust boundaries; direct
// casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "dataspace/pkg/domain-errors"
)

// TransferID identifies one orchestrated transfer.
type TransferID uuid.UUID

// NewTransferID generates a fresh random transfer ID.
func NewTransferID() TransferID {
	return TransferID(uuid.New())
}

// ParseTransferID constructs a TransferID from external input.
//
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil
// UUID; no other errors are expected.
func ParseTransferID(s string) (TransferID, error) {
	if s == "" {
		return TransferID{}, dErrors.New(dErrors.CodeInvalidInput, "transfer id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return TransferID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid transfer id")
	}
	if u == uuid.Nil {
		return TransferID{}, dErrors.New(dErrors.CodeInvalidInput, "transfer id cannot be nil")
	}
	return TransferID(u), nil
}

// IsNil reports whether the ID is the zero UUID.
func (id TransferID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id TransferID) String() string {
	return uuid.UUID(id).String()
}

// MarshalText renders the ID as its canonical UUID string. Defined types do
// not inherit uuid.UUID's marshalling, so without this the ID would serialize
// as a 16-element byte array on every JSON wire, including the audit sink.
func (id TransferID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *TransferID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInvalidInput, "invalid transfer id", err)
	}
	*id = TransferID(u)
	return nil
}

// EventID identifies one audit event.
type EventID uuid.UUID

// NewEventID generates a fresh random audit event ID.
func NewEventID() EventID {
	return EventID(uuid.New())
}

func (id EventID) String() string {
	return uuid.UUID(id).String()
}

// MarshalText renders the ID as its canonical UUID string.
func (id EventID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *EventID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInvalidInput, "invalid event id", err)
	}
	*id = EventID(u)
	return nil
}

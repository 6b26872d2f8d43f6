package slotstore

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPosition is returned when a position is outside [0, NumPositions).
	ErrInvalidPosition = errors.New("invalid position")

	// ErrSnapshotTrimmed is returned when a snapshot token is older than the
	// trim watermark, so its history may no longer be retained.
	ErrSnapshotTrimmed = errors.New("snapshot trimmed")
)

// PositionError reports an operation called with an out-of-range position.
//
// It matches ErrInvalidPosition via errors.Is.
type PositionError struct {
	Op       string
	Position int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%s: %s %d (valid: 0-%d)", e.Op, ErrInvalidPosition, e.Position, NumPositions-1)
}

func (e *PositionError) Unwrap() error { return ErrInvalidPosition }

func checkPosition(op string, position int) error {
	if position < 0 || position >= NumPositions {
		return &PositionError{Op: op, Position: position}
	}
	return nil
}

func trimmedError(token Token, watermark uint64) error {
	return fmt.Errorf("%w: token %d is older than watermark %d", ErrSnapshotTrimmed, token, watermark)
}

package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
)

// SetRememberedSession replaces the remembered session with one for userID.
func (t *Tracker) SetRememberedSession(ctx context.Context, userID int64, credential string) (*model.RememberedSession, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(credential) == "" {
		return nil, invalidf("credential must not be empty")
	}

	var s *model.RememberedSession
	err := t.store.Transaction(ctx, sessionScope, func(tx *store.Tx) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		var err error
		s, err = tx.SetSession(userID, credential)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("remembering session of user %d: %w", userID, err)
	}
	return s, nil
}

// RememberedSession returns the remembered session. ok is false when the
// slot is empty.
func (t *Tracker) RememberedSession(ctx context.Context) (s *model.RememberedSession, ok bool, err error) {
	err = t.store.ReadTransaction(ctx, sessionScope, func(tx *store.Tx) error {
		var err error
		s, err = tx.Session()
		return err
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("reading remembered session: %w", err)
	}
	return s, true, nil
}

// ClearRememberedSession empties the slot. Clearing an empty slot is not an
// error.
func (t *Tracker) ClearRememberedSession(ctx context.Context) error {
	err := t.store.Transaction(ctx, sessionScope, func(tx *store.Tx) error {
		return tx.ClearSession()
	})
	if err != nil {
		return fmt.Errorf("clearing remembered session: %w", err)
	}
	return nil
}

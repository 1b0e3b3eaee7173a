package store

import (
	"fmt"
	"strings"

	"github.com/nhle/productivity-tracker/internal/model"
)

// sessionSlot is the fixed key of the single remembered-session row.
const sessionSlot = 1

// Session returns the remembered session, or ErrNotFound when the slot is
// empty.
func (tx *Tx) Session() (*model.RememberedSession, error) {
	if err := tx.use(Sessions, false); err != nil {
		return nil, err
	}

	var s model.RememberedSession
	err := tx.tx.GetContext(tx.ctx, &s,
		"SELECT id, user_id, credential FROM remembered_session WHERE id = ?", sessionSlot)
	if err != nil {
		return nil, fmt.Errorf("getting remembered session: %w", classify(err))
	}
	return &s, nil
}

// SetSession empties the slot and stores a new remembered session in it,
// so at most one row ever exists.
func (tx *Tx) SetSession(userID int64, credential string) (*model.RememberedSession, error) {
	if err := tx.use(Sessions, true); err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, invalid("user id must be positive, got %d", userID)
	}
	if strings.TrimSpace(credential) == "" {
		return nil, invalid("remembered credential must not be empty")
	}

	if err := tx.ClearSession(); err != nil {
		return nil, err
	}

	s := model.RememberedSession{ID: sessionSlot, UserID: userID, Credential: credential}
	_, err := tx.tx.ExecContext(tx.ctx,
		"INSERT INTO remembered_session (id, user_id, credential) VALUES (?, ?, ?)",
		s.ID, s.UserID, s.Credential)
	if err != nil {
		return nil, fmt.Errorf("setting remembered session: %w", classify(err))
	}
	return &s, nil
}

// ClearSession empties the slot. Clearing an empty slot is not an error.
func (tx *Tx) ClearSession() error {
	if err := tx.use(Sessions, true); err != nil {
		return err
	}
	if _, err := tx.tx.ExecContext(tx.ctx, "DELETE FROM remembered_session"); err != nil {
		return fmt.Errorf("clearing remembered session: %w", classify(err))
	}
	return nil
}

package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
)

// CreateUser inserts a new user and returns its id. Username and email must
// be unused; the login counters start at zero.
func (t *Tracker) CreateUser(ctx context.Context, u model.User) (int64, error) {
	u.ID = 0
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	if u.Username == "" || u.Email == "" {
		return 0, invalidf("username and email are required")
	}
	if u.Theme == "" {
		u.Theme = model.ThemeLight
	}
	if err := checkTheme(u.Theme); err != nil {
		return 0, err
	}
	u.LoginCount = 0
	u.LastLogin = nil
	u.CreatedAt = t.timestamp()

	var id int64
	err := t.store.Transaction(ctx, usersOnly, func(tx *store.Tx) error {
		var err error
		id, err = tx.Put(store.Users, u)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("creating user %q: %w", u.Username, err)
	}
	return id, nil
}

// GetUser returns the user with the given id.
func (t *Tracker) GetUser(ctx context.Context, id int64) (*model.User, error) {
	if err := checkID("user", id); err != nil {
		return nil, err
	}

	var u *model.User
	err := t.store.ReadTransaction(ctx, usersOnly, func(tx *store.Tx) error {
		var err error
		u, err = store.Get[model.User](tx, store.Users, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return u, nil
}

// GetUserByUsername looks a user up through the unique username index.
func (t *Tracker) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return t.userByIndex(ctx, store.IndexUsername, strings.TrimSpace(username))
}

// GetUserByEmail looks a user up through the unique email index.
func (t *Tracker) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return t.userByIndex(ctx, store.IndexEmail, strings.TrimSpace(email))
}

func (t *Tracker) userByIndex(ctx context.Context, index, key string) (*model.User, error) {
	if key == "" {
		return nil, invalidf("%s must not be empty", index)
	}

	var u *model.User
	err := t.store.ReadTransaction(ctx, usersOnly, func(tx *store.Tx) error {
		var err error
		u, err = store.GetByIndex[model.User](tx, store.Users, index, key)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting user by %s %q: %w", index, key, err)
	}
	return u, nil
}

// UpdateUserTheme stores a new theme preference.
func (t *Tracker) UpdateUserTheme(ctx context.Context, userID int64, theme model.Theme) error {
	if err := checkID("user", userID); err != nil {
		return err
	}
	if err := checkTheme(theme); err != nil {
		return err
	}

	err := t.store.Transaction(ctx, usersOnly, func(tx *store.Tx) error {
		u, err := store.Get[model.User](tx, store.Users, userID)
		if err != nil {
			return err
		}
		u.Theme = theme
		_, err = tx.Put(store.Users, *u)
		return err
	})
	if err != nil {
		return fmt.Errorf("updating theme of user %d: %w", userID, err)
	}
	return nil
}

// UpdateUserLoginInfo increments the login count and stamps the login time.
func (t *Tracker) UpdateUserLoginInfo(ctx context.Context, userID int64) (*model.User, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}

	var u *model.User
	err := t.store.Transaction(ctx, usersOnly, func(tx *store.Tx) error {
		var err error
		u, err = t.recordLogin(tx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("recording login of user %d: %w", userID, err)
	}
	return u, nil
}

// RecordLogin applies a successful login in one transaction: the login
// counters are updated and the remembered session is set to credential when
// remember is true, or cleared otherwise.
func (t *Tracker) RecordLogin(ctx context.Context, userID int64, credential string, remember bool) (*model.User, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}

	var u *model.User
	err := t.store.Transaction(ctx, sessionScope, func(tx *store.Tx) error {
		var err error
		if u, err = t.recordLogin(tx, userID); err != nil {
			return err
		}
		if !remember {
			return tx.ClearSession()
		}
		_, err = tx.SetSession(userID, credential)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("recording login of user %d: %w", userID, err)
	}
	return u, nil
}

func (t *Tracker) recordLogin(tx *store.Tx, userID int64) (*model.User, error) {
	u, err := store.Get[model.User](tx, store.Users, userID)
	if err != nil {
		return nil, err
	}
	now := t.timestamp()
	u.LoginCount++
	u.LastLogin = &now
	if _, err := tx.Put(store.Users, *u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser removes the user together with every task and milestone it
// owns and the remembered session if it names the user. Deleting an absent
// user is not an error.
func (t *Tracker) DeleteUser(ctx context.Context, userID int64) error {
	if err := checkID("user", userID); err != nil {
		return err
	}

	err := t.store.Transaction(ctx, everything, func(tx *store.Tx) error {
		milestones, err := store.ScanByIndex[model.Milestone](tx, store.Milestones, store.IndexUserID, userID)
		if err != nil {
			return err
		}
		for _, m := range milestones {
			if err := tx.Delete(store.Milestones, m.ID); err != nil {
				return err
			}
		}

		tasks, err := store.ScanByIndex[model.Task](tx, store.Tasks, store.IndexUserID, userID)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			if err := tx.Delete(store.Tasks, task.ID); err != nil {
				return err
			}
		}

		session, err := tx.Session()
		switch {
		case errors.Is(err, store.ErrNotFound):
		case err != nil:
			return err
		case session.UserID == userID:
			if err := tx.ClearSession(); err != nil {
				return err
			}
		}

		return tx.Delete(store.Users, userID)
	})
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", userID, err)
	}
	return nil
}

// requireUser turns a missing owner into a constraint violation.
func requireUser(tx *store.Tx, userID int64) error {
	_, err := store.Get[model.User](tx, store.Users, userID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: user %d does not exist", store.ErrConstraintViolation, userID)
	}
	return err
}

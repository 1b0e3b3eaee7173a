package model

import "time"

// Theme is a user's display preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t names a supported theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// User is an account that owns tasks and milestones.
type User struct {
	ID         int64      `json:"id" db:"id"`
	Username   string     `json:"username" db:"username"`
	Email      string     `json:"email" db:"email"`
	Password   string     `json:"password" db:"password" masq:"secret"`
	FullName   string     `json:"fullName" db:"full_name"`
	Theme      Theme      `json:"theme" db:"theme"`
	LoginCount int        `json:"loginCount" db:"login_count"`
	LastLogin  *time.Time `json:"lastLogin" db:"last_login"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

// Key returns the primary key of the user.
func (u User) Key() int64 { return u.ID }

// RememberedSession records the credential of a "remember me" login.
// At most one exists at a time.
type RememberedSession struct {
	ID         int64  `json:"id" db:"id"`
	UserID     int64  `json:"userId" db:"user_id"`
	Credential string `json:"credential" db:"credential" masq:"secret"`
}

package domain

import "time"

// User is a logged-in identity. PasswordHash is empty for identities derived at login.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Actor is the identity performing an operation: a user, a guest, or nobody.
type Actor struct {
	User    *User
	GuestID string
}

func (a Actor) IsAuthenticated() bool {
	return a.User != nil
}

func (a Actor) IsAdmin() bool {
	return a.User != nil && a.User.IsAdmin
}

// OwnerID is the key carts are stored under: the user id when logged in, else the guest id.
func (a Actor) OwnerID() string {
	if a.User != nil {
		return a.User.ID
	}
	return a.GuestID
}

// RequireUser fails with ErrUnauthorized unless the actor is logged in.
func RequireUser(a Actor) error {
	if !a.IsAuthenticated() {
		return ErrUnauthorized
	}
	return nil
}

// RequireAdmin fails with ErrUnauthorized for anonymous actors and ErrForbidden for regular users.
func RequireAdmin(a Actor) error {
	if err := RequireUser(a); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

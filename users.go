package bankledger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role gates back-office operations: loan decisions, disbursements, fraud
// review and product repricing require manager or admin.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// User is an account holder or a member of staff.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CheckPassword reports whether the given password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}

// Preferences holds a user's display settings. The ledger consults only the
// currency (for formatting at the display boundary); the rest belongs to the
// presentation layer.
type Preferences struct {
	UserID      string `json:"user"`
	Currency    string `json:"currency"`
	Theme       string `json:"theme"`
	FontSize    string `json:"fontSize"`
	ShowBalance bool   `json:"showBalance"`
}

// defaultPreferences are the settings a fresh user starts with.
func defaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:      userID,
		Currency:    "USD",
		Theme:       "dark",
		FontSize:    "medium",
		ShowBalance: true,
	}
}

// NewUser creates a user with a bcrypt password hash and explicitly
// initializes their preferences in the same unit of work. Preference
// creation is a deliberate step of this workflow, not a hidden side effect
// of persistence.
func (l *Ledger) NewUser(ctx context.Context, name, email, password string, role Role) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	var user *User
	err = l.store.Update(ctx, func(tx Tx) error {
		user = &User{
			ID:           l.newID(),
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    l.now(),
		}
		if err := tx.PutUser(user); err != nil {
			return err
		}
		return tx.PutPreferences(defaultPreferences(user.ID))
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// requireRole fetches the acting user and checks their role against the
// allowed set.
func requireRole(tx Tx, userID string, allowed ...Role) error {
	user, err := tx.User(userID)
	if err != nil {
		return fmt.Errorf("actor %s: %w", userID, err)
	}
	if !slices.Contains(allowed, user.Role) {
		return fmt.Errorf("role %s: %w", user.Role, ErrForbidden)
	}
	return nil
}

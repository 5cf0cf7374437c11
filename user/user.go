package user

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownUser   = errors.New("unknown user")
	ErrEmptyID       = errors.New("user id can't be empty")
	ErrDuplicateUser = errors.New("duplicate user id")
)

type User struct {
	ID   string `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
}

// Roster is the fixed set of users known at startup.
// It is safe for concurrent reads since it never changes after NewRoster.
type Roster struct {
	users []User
	byID  map[string]User
}

func NewRoster(users []User) (*Roster, error) {
	r := &Roster{
		users: make([]User, 0, len(users)),
		byID:  make(map[string]User, len(users)),
	}

	for _, u := range users {
		u.ID = strings.TrimSpace(u.ID)
		if u.ID == "" {
			return nil, ErrEmptyID
		}
		if _, ok := r.byID[u.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUser, u.ID)
		}
		if u.Name == "" {
			u.Name = u.ID
		}
		r.users = append(r.users, u)
		r.byID[u.ID] = u
	}

	return r, nil
}

// Get looks a user up by id.
func (r *Roster) Get(id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, fmt.Errorf("%w: %q", ErrUnknownUser, id)
	}
	return u, nil
}

func (r *Roster) Contains(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Users returns the roster in declaration order.
func (r *Roster) Users() []User {
	out := make([]User, len(r.users))
	copy(out, r.users)
	return out
}

func (r *Roster) Len() int {
	return len(r.users)
}

package domain

import "time"

// User is an account able to obtain tokens and own tickets.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Owner is the display projection of a ticket owner.
type Owner struct {
	ID    string
	Name  string
	Email string
}

// Owner returns the display projection of the user.
func (u *User) Owner() Owner {
	return Owner{ID: u.ID, Name: u.Name, Email: u.Email}
}

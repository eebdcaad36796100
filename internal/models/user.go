package models

import "time"

type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
}

// PublicUser is the only user projection that ever leaves the
// server. The password hash stays in User.
type PublicUser struct {
	ID    int64
	Name  string
	Email string
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

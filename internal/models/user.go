package models

import "time"

// User is an optional registered author. Anonymous posts have no User.
type User struct {
	ID          string    `gorm:"primaryKey;size:128" json:"id"`
	DisplayName string    `gorm:"size:100" json:"displayName"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	Bio         string    `gorm:"type:text" json:"bio,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Author is the public projection of a User attached to a post.
type Author struct {
	UID         string  `json:"uid"`
	DisplayName string  `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
}

// AsAuthor projects u into its public author view.
func (u *User) AsAuthor() *Author {
	if u == nil {
		return nil
	}
	name := u.DisplayName
	if name == "" {
		name = "Anonymous"
	}
	a := &Author{UID: u.ID, DisplayName: name}
	if u.PhotoURL != "" {
		photo := u.PhotoURL
		a.PhotoURL = &photo
	}
	return a
}

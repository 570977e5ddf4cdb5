// Package model defines the data structures used throughout the tracker.
package model

import "time"

// UserProfile is a registered user. Email is the case-sensitive primary key.
//
// PasswordHash holds the bcrypt output, never the raw password. The JSON tag
// is "-" so the hash cannot leak through an API response; the file store
// persists profiles through its own record type (see repository/jsonfile).
type UserProfile struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Age          int       `json:"age"`    // years
	Weight       float64   `json:"weight"` // kilograms
	Height       float64   `json:"height"` // centimeters
	Gender       string    `json:"gender"`
	Goal         string    `json:"goal"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfileFields is the mutable part of a profile: everything except the
// email and the credential.
type ProfileFields struct {
	Name   string  `json:"name"`
	Age    int     `json:"age"`
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
	Gender string  `json:"gender"`
	Goal   string  `json:"goal"`
}

// Apply overwrites the profile's mutable fields. The credential is untouched.
func (p *UserProfile) Apply(f ProfileFields) {
	p.Name = f.Name
	p.Age = f.Age
	p.Weight = f.Weight
	p.Height = f.Height
	p.Gender = f.Gender
	p.Goal = f.Goal
}

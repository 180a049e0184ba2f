package domain

import "time"

// User is the domain model for registered accounts.
type User struct {
	ID                string
	Email             string
	Name              string
	PasswordHash      string
	Role              Role
	EmailVerified     bool
	VerificationToken *string
	ResetToken        *string
	ResetExpires      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

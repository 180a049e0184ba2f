package domain

import "time"

// Comment is a reader comment on a magazine. Hidden until approved.
type Comment struct {
	ID         string
	MagazineID string
	AuthorID   string
	Content    string
	Approved   bool
	CreatedAt  time.Time
}

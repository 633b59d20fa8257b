package postrepo

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("post not found")

type UpdatePostRequest struct {
	ID        int64
	Title     *string
	Content   *string
	TagIDs    []int64
	SetTags   bool
	UpdatedAt time.Time
}

type DeletePostRequest struct {
	ID        int64
	DeletedAt time.Time
	// Cascade also soft-deletes the post's comments.
	Cascade bool
}

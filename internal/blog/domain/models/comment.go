package models

import "time"

type Comment struct {
	ID        int64      `json:"id"`
	Content   string     `json:"content"`
	PostID    int64      `json:"post_id"`    //nolint:tagliatelle
	AuthorID  int64      `json:"author_id"`  //nolint:tagliatelle
	CreatedAt time.Time  `json:"created_at"` //nolint:tagliatelle
	UpdatedAt time.Time  `json:"updated_at"` //nolint:tagliatelle
	IsDeleted bool       `json:"-"`
	DeletedAt *time.Time `json:"-"`
}

func (c Comment) OwnerID() int64 { return c.AuthorID }

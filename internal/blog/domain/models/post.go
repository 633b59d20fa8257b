package models

import "time"

type Post struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	AuthorID  int64      `json:"author_id"` //nolint:tagliatelle
	Tags      []Tag      `json:"tags"`
	CreatedAt time.Time  `json:"created_at"` //nolint:tagliatelle
	UpdatedAt time.Time  `json:"updated_at"` //nolint:tagliatelle
	IsDeleted bool       `json:"-"`
	DeletedAt *time.Time `json:"-"`
}

func (p Post) OwnerID() int64 { return p.AuthorID }

func (p Post) TagIDs() []int64 {
	ids := make([]int64, 0, len(p.Tags))
	for _, t := range p.Tags {
		ids = append(ids, t.ID)
	}

	return ids
}

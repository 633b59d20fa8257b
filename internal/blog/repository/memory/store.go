// Package memory is an in-process Entity Store with the same soft-delete,
// ordering and uniqueness rules as the postgres repositories. Tests use it
// in place of a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/blog/repository/commentrepo"
	"github.com/Leopold1975/blog_api/internal/blog/repository/postrepo"
	"github.com/Leopold1975/blog_api/internal/blog/repository/tagrepo"
	"github.com/Leopold1975/blog_api/internal/blog/repository/userrepo"
	"github.com/Leopold1975/blog_api/internal/pkg/pgtools"
)

type Store struct {
	mu sync.RWMutex

	users    map[int64]models.User
	posts    map[int64]models.Post
	postTags map[int64][]int64
	comments map[int64]models.Comment
	tags     map[int64]models.Tag

	lastID int64
}

func New() *Store {
	return &Store{
		users:    make(map[int64]models.User),
		posts:    make(map[int64]models.Post),
		postTags: make(map[int64][]int64),
		comments: make(map[int64]models.Comment),
		tags:     make(map[int64]models.Tag),
	}
}

func (s *Store) nextID() int64 {
	s.lastID++

	return s.lastID
}

func visible(deleted bool, opts pgtools.ReadOptions) bool {
	return opts.WithDeleted || !deleted
}

// newestFirst orders by created_at then id, both descending.
func newestFirst(aCreated, bCreated time.Time, aID, bID int64) bool {
	if !aCreated.Equal(bCreated) {
		return aCreated.After(bCreated)
	}

	return aID > bID
}

func paginate[T any](items []T, page models.Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}

	return items[page.Offset:end]
}

func (s *Store) CreateUser(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.users {
		if e.Email == u.Email {
			return models.User{}, userrepo.ErrEmailTaken
		}

		if e.Username == u.Username {
			return models.User{}, userrepo.ErrUsernameTaken
		}
	}

	u.ID = s.nextID()
	s.users[u.ID] = u

	return u, nil
}

func (s *Store) GetUserByID(_ context.Context, id int64, opts pgtools.ReadOptions) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok || !visible(u.IsDeleted, opts) {
		return models.User{}, userrepo.ErrNotFound
	}

	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username && !u.IsDeleted {
			return u, nil
		}
	}

	return models.User{}, userrepo.ErrNotFound
}

// DeleteUser soft-deletes a user. There is no API route for it.
func (s *Store) DeleteUser(_ context.Context, id int64, deletedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || u.IsDeleted {
		return userrepo.ErrNotFound
	}

	u.IsDeleted, u.DeletedAt, u.UpdatedAt = true, &deletedAt, deletedAt
	s.users[id] = u

	return nil
}

func (s *Store) CreateTag(_ context.Context, t models.Tag) (models.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.tags {
		if e.Name == t.Name {
			return models.Tag{}, tagrepo.ErrAlreadyExists
		}
	}

	t.ID = s.nextID()
	s.tags[t.ID] = t

	return t, nil
}

func (s *Store) GetTagsByIDs(_ context.Context, ids []int64) ([]models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tagsByIDs(ids), nil
}

func (s *Store) ListTags(_ context.Context, page models.Page) ([]models.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := make([]models.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		tags = append(tags, t)
	}

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Name != tags[j].Name {
			return tags[i].Name < tags[j].Name
		}

		return tags[i].ID < tags[j].ID
	})

	return paginate(tags, page), nil
}

func (s *Store) tagsByIDs(ids []int64) []models.Tag {
	tags := make([]models.Tag, 0, len(ids))

	for _, id := range ids {
		if t, ok := s.tags[id]; ok {
			tags = append(tags, t)
		}
	}

	sort.Slice(tags, func(i, j int) bool { return strings.Compare(tags[i].Name, tags[j].Name) < 0 })

	return tags
}

func (s *Store) CreatePost(_ context.Context, p models.Post, tagIDs []int64) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextID()
	s.posts[p.ID] = p
	s.postTags[p.ID] = append([]int64(nil), tagIDs...)

	return s.withTags(p), nil
}

func (s *Store) GetPost(_ context.Context, id int64, opts pgtools.ReadOptions) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok || !visible(p.IsDeleted, opts) {
		return models.Post{}, postrepo.ErrNotFound
	}

	return s.withTags(p), nil
}

func (s *Store) ListPosts(_ context.Context, page models.Page) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.posts))

	for _, p := range s.posts {
		if !p.IsDeleted {
			posts = append(posts, s.withTags(p))
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		return newestFirst(posts[i].CreatedAt, posts[j].CreatedAt, posts[i].ID, posts[j].ID)
	})

	return paginate(posts, page), nil
}

func (s *Store) UpdatePost(_ context.Context, req postrepo.UpdatePostRequest) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[req.ID]
	if !ok || p.IsDeleted {
		return models.Post{}, postrepo.ErrNotFound
	}

	if req.Title != nil {
		p.Title = *req.Title
	}

	if req.Content != nil {
		p.Content = *req.Content
	}

	if req.SetTags {
		s.postTags[p.ID] = append([]int64(nil), req.TagIDs...)
	}

	p.UpdatedAt = req.UpdatedAt
	s.posts[p.ID] = p

	return s.withTags(p), nil
}

func (s *Store) DeletePost(_ context.Context, req postrepo.DeletePostRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[req.ID]
	if !ok || p.IsDeleted {
		return postrepo.ErrNotFound
	}

	at := req.DeletedAt
	p.IsDeleted, p.DeletedAt, p.UpdatedAt = true, &at, at
	s.posts[p.ID] = p

	if req.Cascade {
		for id, c := range s.comments {
			if c.PostID == p.ID && !c.IsDeleted {
				c.IsDeleted, c.DeletedAt, c.UpdatedAt = true, &at, at
				s.comments[id] = c
			}
		}
	}

	return nil
}

func (s *Store) withTags(p models.Post) models.Post {
	p.Tags = s.tagsByIDs(s.postTags[p.ID])

	return p
}

func (s *Store) CreateComment(_ context.Context, c models.Comment) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID()
	s.comments[c.ID] = c

	return c, nil
}

func (s *Store) GetComment(_ context.Context, id int64, opts pgtools.ReadOptions) (models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok || !visible(c.IsDeleted, opts) {
		return models.Comment{}, commentrepo.ErrNotFound
	}

	return c, nil
}

func (s *Store) ListCommentsByPost(_ context.Context, postID int64, page models.Page) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]models.Comment, 0)

	for _, c := range s.comments {
		if c.PostID == postID && !c.IsDeleted {
			comments = append(comments, c)
		}
	}

	sort.Slice(comments, func(i, j int) bool {
		return newestFirst(comments[i].CreatedAt, comments[j].CreatedAt, comments[i].ID, comments[j].ID)
	})

	return paginate(comments, page), nil
}

func (s *Store) UpdateComment(_ context.Context, id int64, content string,
	updatedAt time.Time,
) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok || c.IsDeleted {
		return models.Comment{}, commentrepo.ErrNotFound
	}

	c.Content, c.UpdatedAt = content, updatedAt
	s.comments[id] = c

	return c, nil
}

func (s *Store) DeleteComment(_ context.Context, id int64, deletedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok || c.IsDeleted {
		return commentrepo.ErrNotFound
	}

	c.IsDeleted, c.DeletedAt, c.UpdatedAt = true, &deletedAt, deletedAt
	s.comments[id] = c

	return nil
}

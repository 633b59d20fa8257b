package server

import (
	"net/http"

	"github.com/Leopold1975/blog_api/internal/blog/services/postservice"
)

// (GET /posts).
func (s *Server) GetPosts(w http.ResponseWriter, r *http.Request) {
	page, err := s.page(r)
	if err != nil {
		s.handleError(w, err)

		return
	}

	posts, err := s.postService.ListPosts(r.Context(), page)
	if err != nil {
		s.handleError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, posts)
}

// (GET /posts/{id}).
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, err)

		return
	}

	p, err := s.postService.GetPost(r.Context(), id)
	if err != nil {
		s.handleError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, p)
}

// (POST /posts).
func (s *Server) PostPost(w http.ResponseWriter, r *http.Request) {
	var req postservice.CreatePostRequest

	if err := s.decode(r, &req); err != nil {
		s.handleError(w, err)

		return
	}

	p, err := s.postService.CreatePost(r.Context(), currentUser(r.Context()), req)
	if err != nil {
		s.handleError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, p)
}

// PutPost applies a partial update; PATCH is served by the same handler.
// (PUT /posts/{id}).
func (s *Server) PutPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, err)

		return
	}

	var req postservice.UpdatePostRequest

	if err := s.decode(r, &req); err != nil {
		s.handleError(w, err)

		return
	}

	p, err := s.postService.UpdatePost(r.Context(), currentUser(r.Context()), id, req)
	if err != nil {
		s.handleError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, p)
}

// (DELETE /posts/{id}).
func (s *Server) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, err)

		return
	}

	if err := s.postService.DeletePost(r.Context(), currentUser(r.Context()), id); err != nil {
		s.handleError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

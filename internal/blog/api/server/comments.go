package server

import (
	"net/http"

	"github.com/Leopold1975/blog_api/internal/blog/services/commentservice"
)

// (GET /comments/post/{id}).
func (s *Server) GetPostComments(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		s.handleError(w, err)

		return
	}

	page, err := s.page(r)
	if err != nil {
		s.handleError(w, err)

		return
	}

	comments, err := s.commentService.ListCommentsByPost(r.Context(), postID, page)
	if err != nil {
		s.handleError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, comments)
}

// (GET /comments/{id}).
func (s *Server) GetComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, err)

		return
	}

	c, err := s.commentService.GetComment(r.Context(), id)
	if err != nil {
		s.handleError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, c)
}

// (POST /comments).
func (s *Server) PostComment(w http.ResponseWriter, r *http.Request) {
	var req commentservice.CreateCommentRequest

	if err := s.decode(r, &req); err != nil {
		s.handleError(w, err)

		return
	}

	c, err := s.commentService.CreateComment(r.Context(), currentUser(r.Context()), req)
	if err != nil {
		s.handleError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, c)
}

// (PUT /comments/{id}).
func (s *Server) PutComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, err)

		return
	}

	var req commentservice.UpdateCommentRequest

	if err := s.decode(r, &req); err != nil {
		s.handleError(w, err)

		return
	}

	c, err := s.commentService.UpdateComment(r.Context(), currentUser(r.Context()), id, req)
	if err != nil {
		s.handleError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, c)
}

// (DELETE /comments/{id}).
func (s *Server) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, err)

		return
	}

	if err := s.commentService.DeleteComment(r.Context(), currentUser(r.Context()), id); err != nil {
		s.handleError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

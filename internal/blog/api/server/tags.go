package server

import (
	"net/http"

	"github.com/Leopold1975/blog_api/internal/blog/services/tagservice"
)

// (GET /tags).
func (s *Server) GetTags(w http.ResponseWriter, r *http.Request) {
	page, err := s.page(r)
	if err != nil {
		s.handleError(w, err)

		return
	}

	tags, err := s.tagService.ListTags(r.Context(), page)
	if err != nil {
		s.handleError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, tags)
}

// (POST /tags).
func (s *Server) PostTag(w http.ResponseWriter, r *http.Request) {
	var req tagservice.CreateTagRequest

	if err := s.decode(r, &req); err != nil {
		s.handleError(w, err)

		return
	}

	t, err := s.tagService.CreateTag(r.Context(), req)
	if err != nil {
		s.handleError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, t)
}

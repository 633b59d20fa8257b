package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Leopold1975/blog_api/internal/blog/domain/models"
	"github.com/Leopold1975/blog_api/internal/pkg/validation"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

type pageParams struct {
	Offset int  `json:"offset" validate:"gte=0,lte=1000"`
	Limit  *int `json:"limit"  validate:"omitnil,gte=1"`
}

// pathID binds the {id} path parameter.
func pathID(r *http.Request) (int64, error) {
	var id int64

	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, validation.Errors{"id": "value is not a valid integer"}
	}

	if id <= 0 {
		return 0, validation.Errors{"id": "should be greater than 0"}
	}

	return id, nil
}

// page binds offset (or its alias skip) and limit query parameters.
func (s *Server) page(r *http.Request) (models.Page, error) {
	var offset, skip, limit *int

	q := r.URL.Query()

	for name, dest := range map[string]**int{"offset": &offset, "skip": &skip, "limit": &limit} {
		if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
			return models.Page{}, validation.Errors{name: "value is not a valid integer"}
		}
	}

	p := pageParams{Offset: 0, Limit: limit}

	switch {
	case offset != nil:
		p.Offset = *offset
	case skip != nil:
		p.Offset = *skip
	}

	if err := s.validator.Struct(p); err != nil {
		return models.Page{}, err //nolint:wrapcheck
	}

	res := models.Page{Offset: p.Offset, Limit: 0}

	if limit != nil {
		if *limit > s.maxLimit {
			return models.Page{}, validation.Errors{"limit": fmt.Sprintf("should be less than or equal to %d", s.maxLimit)}
		}

		res.Limit = *limit
	}

	return res, nil
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	if err := s.validator.Struct(dst); err != nil {
		return err //nolint:wrapcheck
	}

	return nil
}

package postservice

type CreatePostRequest struct {
	Title   string  `json:"title"   validate:"required,min=1,max=200"`
	Content string  `json:"content" validate:"required,min=1"`
	TagIDs  []int64 `json:"tag_ids" validate:"omitempty,dive,gt=0"` //nolint:tagliatelle
}

// UpdatePostRequest is a partial update; nil fields are left unchanged and a
// non-nil TagIDs replaces the post's tags.
type UpdatePostRequest struct {
	Title   *string  `json:"title"   validate:"omitnil,min=1,max=200"`
	Content *string  `json:"content" validate:"omitnil,min=1"`
	TagIDs  *[]int64 `json:"tag_ids" validate:"omitnil,dive,gt=0"` //nolint:tagliatelle
}

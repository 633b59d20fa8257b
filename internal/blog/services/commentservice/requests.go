package commentservice

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
	PostID  int64  `json:"post_id" validate:"required,gt=0"` //nolint:tagliatelle
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

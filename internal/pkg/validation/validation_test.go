package validation_test

import (
	"errors"
	"testing"

	"github.com/Leopold1975/blog_api/internal/pkg/validation"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string  `json:"email"     validate:"required,email"`
	Username string  `json:"username"  validate:"required,min=3,max=50,username"`
	FullName *string `json:"full_name" validate:"omitnil,max=5"`
	Tags     []int64 `json:"tag_ids"   validate:"omitempty,dive,gt=0"`
}

func TestStructOK(t *testing.T) {
	v := validation.New()

	require.NoError(t, v.Struct(signup{Email: "a@b.com", Username: "user_1-x", Tags: []int64{1, 2}}))
}

func TestStructFieldErrors(t *testing.T) {
	v := validation.New()
	long := "too long name"

	err := v.Struct(signup{Email: "nope", Username: "a!", FullName: &long, Tags: []int64{1, 0}})
	require.Error(t, err)

	var ve validation.Errors
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "value is not a valid email address", ve["email"])
	require.Equal(t, "should have at least 3 characters", ve["username"])
	require.Equal(t, "should have at most 5 characters", ve["full_name"])
	require.Equal(t, "should be greater than 0", ve["tag_ids[1]"])
	require.Contains(t, err.Error(), "email: value is not a valid email address")
}

func TestStructUsernameCharset(t *testing.T) {
	v := validation.New()

	err := v.Struct(signup{Email: "a@b.com", Username: "bad name"})

	var ve validation.Errors
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "must be alphanumeric (can include _ and -)", ve["username"])
}

func TestStructRequired(t *testing.T) {
	v := validation.New()

	var ve validation.Errors
	require.ErrorAs(t, v.Struct(signup{}), &ve)
	require.Equal(t, "field required", ve["email"])
	require.Equal(t, "field required", ve["username"])
}

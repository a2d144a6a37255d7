package domain

import "errors"

var (
	MessageSuccessGetTags   = "success get tags"
	MessageSuccessGetTag    = "success get tag"
	MessageSuccessCreateTag = "tag created successfully"

	MessageFailedGetTags   = "failed to get tags"
	MessageFailedGetTag    = "failed to get tag"
	MessageFailedCreateTag = "failed to create tag"

	ErrTagNotFound   = errors.New("tag not found")
	ErrTagSlugExists = errors.New("tag slug already exists")
)

type (
	Tag struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}

	CreateTagRequest struct {
		Name  string `json:"name" validate:"required,max=50"`
		Color string `json:"color" validate:"required,hexcolor"`
		Slug  string `json:"slug" validate:"required,max=30,slug"`
	}
)

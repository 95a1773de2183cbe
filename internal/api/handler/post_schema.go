package handler

import (
	"github.com/quillpress/blog-api/internal/core/domain"
)

type createPostRequest struct {
	Title         string   `json:"title"         validate:"required,min=5,max=200"`
	Content       string   `json:"content"       validate:"required,min=10"`
	Excerpt       string   `json:"excerpt"       validate:"omitempty,max=300"`
	Category      string   `json:"category"      validate:"omitempty"`
	Tags          []string `json:"tags"          validate:"omitempty,max=10,dive,max=30"`
	Status        string   `json:"status"        validate:"omitempty,oneof=draft published"`
	FeaturedImage string   `json:"featuredImage" validate:"omitempty,url"`
}

type updatePostRequest struct {
	Title         *string  `json:"title"         validate:"omitempty,min=5,max=200"`
	Content       *string  `json:"content"       validate:"omitempty,min=10"`
	Excerpt       *string  `json:"excerpt"       validate:"omitempty,max=300"`
	Category      *string  `json:"category"`
	Tags          []string `json:"tags"          validate:"omitempty,max=10,dive,max=30"`
	Status        *string  `json:"status"        validate:"omitempty,oneof=draft published"`
	FeaturedImage *string  `json:"featuredImage" validate:"omitempty,url"`
}

func (r updatePostRequest) changes() domain.PostChanges {
	ch := domain.PostChanges{
		Title:         r.Title,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		Category:      r.Category,
		Tags:          r.Tags,
		FeaturedImage: r.FeaturedImage,
	}
	if r.Status != nil {
		st := domain.PostStatus(*r.Status)
		ch.Status = &st
	}
	return ch
}

type postData struct {
	Post *domain.Post `json:"post"`
}

type likeData struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

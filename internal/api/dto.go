// Package api defines the request and response shapes of the HTTP surface.
// Responses are built explicitly from domain values; output shapes are the
// input fields plus server-assigned identifiers, never shared structs.
package api

import "github.com/socialapi-dev/socialapi/internal/domain"

// Request DTOs

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreatePostRequest struct {
	Body string `json:"body" validate:"required"`
}

type CreateCommentRequest struct {
	Body   string `json:"body" validate:"required"`
	PostId int64  `json:"post_id" validate:"required"`
}

type LikePostRequest struct {
	PostId int64 `json:"post_id" validate:"required"`
}

// Response DTOs

type DetailResponse struct {
	Detail string `json:"detail"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type PostResponse struct {
	domain.Post
}

type PostWithCommentsResponse struct {
	Post     domain.Post      `json:"post"`
	Comments []domain.Comment `json:"comments"`
}

type UploadResponse struct {
	Detail  string `json:"detail"`
	FileURL string `json:"file_url"`
}

package service

import (
	"context"

	"github.com/socialapi-dev/socialapi/internal/domain"
	"github.com/socialapi-dev/socialapi/internal/errors"
	"github.com/socialapi-dev/socialapi/internal/logger"
)

type PostService interface {
	CreatePost(userId domain.UserId, body, prompt string) (domain.Post, error)
	Posts(sorting string) ([]domain.Post, error)
	PostWithComments(postId domain.PostId) (domain.Post, []domain.Comment, error)
	CreateComment(userId domain.UserId, postId domain.PostId, body string) (domain.Comment, error)
	Comments(postId domain.PostId) ([]domain.Comment, error)
	LikePost(userId domain.UserId, postId domain.PostId) (domain.Like, error)
}

type PostStorage interface {
	SavePost(post domain.Post) (domain.PostId, error)
	Post(id domain.PostId) (domain.Post, error)
	Posts(sorting domain.PostSorting) ([]domain.Post, error)
	UpdatePostImage(id domain.PostId, imageURL string) error
	SaveComment(comment domain.Comment) (domain.CommentId, error)
	Comments(postId domain.PostId) ([]domain.Comment, error)
	SaveLike(like domain.Like) (int64, error)
}

type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Post struct {
	storage  PostStorage
	imageGen ImageGenerator
	tasks    Scheduler
}

func NewPost(storage PostStorage, imageGen ImageGenerator, tasks Scheduler) *Post {
	return &Post{storage: storage, imageGen: imageGen, tasks: tasks}
}

// CreatePost inserts the post and, when a prompt is given, schedules
// background image generation. The response never waits for the image; a
// failed generation just leaves image_url null.
func (p *Post) CreatePost(userId domain.UserId, body, prompt string) (domain.Post, error) {
	post := domain.Post{Body: body, UserId: userId}
	id, err := p.storage.SavePost(post)
	if err != nil {
		return domain.Post{}, err
	}
	post.Id = id

	if prompt != "" && p.imageGen != nil {
		p.tasks.Schedule("generate-post-image", func(ctx context.Context) error {
			url, err := p.imageGen.Generate(ctx, prompt)
			if err != nil {
				return err
			}
			logger.Log.Debug("generated post image", "post_id", id, "url", url)
			return p.storage.UpdatePostImage(id, url)
		})
	}
	return post, nil
}

func (p *Post) Posts(sorting string) ([]domain.Post, error) {
	s := domain.PostSorting(sorting)
	if sorting == "" {
		s = domain.SortNew
	}
	if !s.Valid() {
		return nil, errors.BadRequest("Invalid sorting, must be one of: new, old, most_likes")
	}
	return p.storage.Posts(s)
}

func (p *Post) PostWithComments(postId domain.PostId) (domain.Post, []domain.Comment, error) {
	post, err := p.storage.Post(postId)
	if err != nil {
		return domain.Post{}, nil, err
	}
	comments, err := p.storage.Comments(postId)
	if err != nil {
		return domain.Post{}, nil, err
	}
	return post, comments, nil
}

func (p *Post) CreateComment(userId domain.UserId, postId domain.PostId, body string) (domain.Comment, error) {
	// validate the post exists first so the caller gets a 404, not an FK error
	if _, err := p.storage.Post(postId); err != nil {
		return domain.Comment{}, err
	}

	comment := domain.Comment{Body: body, PostId: postId, UserId: userId}
	id, err := p.storage.SaveComment(comment)
	if err != nil {
		return domain.Comment{}, err
	}
	comment.Id = id
	return comment, nil
}

func (p *Post) Comments(postId domain.PostId) ([]domain.Comment, error) {
	if _, err := p.storage.Post(postId); err != nil {
		return nil, err
	}
	return p.storage.Comments(postId)
}

func (p *Post) LikePost(userId domain.UserId, postId domain.PostId) (domain.Like, error) {
	if _, err := p.storage.Post(postId); err != nil {
		return domain.Like{}, err
	}

	like := domain.Like{PostId: postId, UserId: userId}
	id, err := p.storage.SaveLike(like)
	if err != nil {
		return domain.Like{}, err
	}
	like.Id = id
	return like, nil
}

package domain

type PostId = int64
type CommentId = int64

// PostSorting enumerates the orderings accepted by the post listing.
type PostSorting string

const (
	SortNew       PostSorting = "new"
	SortOld       PostSorting = "old"
	SortMostLikes PostSorting = "most_likes"
)

func (s PostSorting) Valid() bool {
	switch s {
	case SortNew, SortOld, SortMostLikes:
		return true
	}
	return false
}

type Post struct {
	Id       PostId  `json:"id"`
	Body     string  `json:"body"`
	UserId   UserId  `json:"user_id"`
	ImageURL *string `json:"image_url"`
	Likes    int64   `json:"likes"`
}

type Comment struct {
	Id     CommentId `json:"id"`
	Body   string    `json:"body"`
	PostId PostId    `json:"post_id"`
	UserId UserId    `json:"user_id"`
}

type Like struct {
	Id     int64  `json:"id"`
	PostId PostId `json:"post_id"`
	UserId UserId `json:"user_id"`
}

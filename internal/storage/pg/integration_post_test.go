package pg

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialapi-dev/socialapi/internal/domain"
	internal_errors "github.com/socialapi-dev/socialapi/internal/errors"
)

// mustCreateUser saves a user with a unique email and returns its id.
func mustCreateUser(t *testing.T, tag string) domain.UserId {
	t.Helper()
	id, err := storage.SaveUser(domain.User{
		Email:    fmt.Sprintf("%s-%s@example.com", tag, t.Name()),
		PassHash: "hash",
	})
	require.NoError(t, err)
	return id
}

func TestSavePostAndGet(t *testing.T) {
	userId := mustCreateUser(t, "poster")

	id, err := storage.SavePost(domain.Post{Body: "first post", UserId: userId})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	post, err := storage.Post(id)
	require.NoError(t, err)
	assert.Equal(t, "first post", post.Body)
	assert.Equal(t, userId, post.UserId)
	assert.Nil(t, post.ImageURL)
	assert.Equal(t, int64(0), post.Likes)

	_, err = storage.Post(999999)
	require.Error(t, err)
	assert.Equal(t, 404, internal_errors.StatusCode(err))
}

func TestPostsSorting(t *testing.T) {
	userId := mustCreateUser(t, "sorter")

	first, err := storage.SavePost(domain.Post{Body: "older", UserId: userId})
	require.NoError(t, err)
	second, err := storage.SavePost(domain.Post{Body: "newer", UserId: userId})
	require.NoError(t, err)

	// the newer post gets a like so most_likes puts it first either way
	_, err = storage.SaveLike(domain.Like{PostId: second, UserId: userId})
	require.NoError(t, err)

	indexOf := func(posts []domain.Post, id domain.PostId) int {
		for i, p := range posts {
			if p.Id == id {
				return i
			}
		}
		return -1
	}

	newest, err := storage.Posts(domain.SortNew)
	require.NoError(t, err)
	assert.Less(t, indexOf(newest, second), indexOf(newest, first))

	oldest, err := storage.Posts(domain.SortOld)
	require.NoError(t, err)
	assert.Less(t, indexOf(oldest, first), indexOf(oldest, second))

	mostLiked, err := storage.Posts(domain.SortMostLikes)
	require.NoError(t, err)
	assert.Less(t, indexOf(mostLiked, second), indexOf(mostLiked, first))
}

func TestUpdatePostImage(t *testing.T) {
	userId := mustCreateUser(t, "imager")

	id, err := storage.SavePost(domain.Post{Body: "needs image", UserId: userId})
	require.NoError(t, err)

	require.NoError(t, storage.UpdatePostImage(id, "https://cdn.example.com/img.png"))

	post, err := storage.Post(id)
	require.NoError(t, err)
	require.NotNil(t, post.ImageURL)
	assert.Equal(t, "https://cdn.example.com/img.png", *post.ImageURL)

	err = storage.UpdatePostImage(999999, "https://cdn.example.com/img.png")
	require.Error(t, err)
	assert.Equal(t, 404, internal_errors.StatusCode(err))
}

func TestSaveCommentAndList(t *testing.T) {
	userId := mustCreateUser(t, "commenter")

	postId, err := storage.SavePost(domain.Post{Body: "commented on", UserId: userId})
	require.NoError(t, err)

	firstId, err := storage.SaveComment(domain.Comment{Body: "first", PostId: postId, UserId: userId})
	require.NoError(t, err)
	_, err = storage.SaveComment(domain.Comment{Body: "second", PostId: postId, UserId: userId})
	require.NoError(t, err)

	comments, err := storage.Comments(postId)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, firstId, comments[0].Id, "comments come back oldest first")
	assert.Equal(t, "first", comments[0].Body)

	empty, err := storage.Comments(999999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSaveLike(t *testing.T) {
	userId := mustCreateUser(t, "liker")

	postId, err := storage.SavePost(domain.Post{Body: "likeable", UserId: userId})
	require.NoError(t, err)

	_, err = storage.SaveLike(domain.Like{PostId: postId, UserId: userId})
	require.NoError(t, err)

	post, err := storage.Post(postId)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.Likes)
}

func TestDeleteUserCascades(t *testing.T) {
	userId := mustCreateUser(t, "cascade")
	email := fmt.Sprintf("cascade-%s@example.com", t.Name())

	postId, err := storage.SavePost(domain.Post{Body: "doomed", UserId: userId})
	require.NoError(t, err)
	_, err = storage.SaveComment(domain.Comment{Body: "doomed too", PostId: postId, UserId: userId})
	require.NoError(t, err)

	require.NoError(t, storage.DeleteUser(email))

	_, err = storage.Post(postId)
	require.Error(t, err)
	assert.Equal(t, 404, internal_errors.StatusCode(err))
}

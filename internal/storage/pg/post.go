package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/socialapi-dev/socialapi/internal/domain"
	internal_errors "github.com/socialapi-dev/socialapi/internal/errors"
)

// =========================================================================
// Public Methods (satisfy the service.PostStorage interface)
// =========================================================================

func (s *Storage) SavePost(post domain.Post) (domain.PostId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id domain.PostId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.savePost(tx, post)
		return err
	})
	return id, err
}

// Post fetches a single post with its likes count.
func (s *Storage) Post(id domain.PostId) (domain.Post, error) {
	return s.post(s.db, id)
}

// Posts lists all posts with likes counts in the requested order.
func (s *Storage) Posts(sorting domain.PostSorting) ([]domain.Post, error) {
	return s.posts(s.db, sorting)
}

// UpdatePostImage sets the image URL of a post once background generation
// has finished.
func (s *Storage) UpdatePostImage(id domain.PostId, imageURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updatePostImage(tx, id, imageURL)
	})
}

func (s *Storage) SaveComment(comment domain.Comment) (domain.CommentId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id domain.CommentId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveComment(tx, comment)
		return err
	})
	return id, err
}

func (s *Storage) Comments(postId domain.PostId) ([]domain.Comment, error) {
	return s.comments(s.db, postId)
}

func (s *Storage) SaveLike(like domain.Like) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveLike(tx, like)
		return err
	})
	return id, err
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

const postColumns = `p.id, p.body, p.user_id, p.image_url, COUNT(l.id) AS likes`

func (s *Storage) savePost(q Querier, post domain.Post) (domain.PostId, error) {
	var id int64
	err := q.QueryRow("INSERT INTO post(body, user_id, image_url) VALUES($1, $2, $3) RETURNING id",
		post.Body, post.UserId, post.ImageURL).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert post: %w", err)
	}
	return id, nil
}

func (s *Storage) post(q Querier, id domain.PostId) (domain.Post, error) {
	var post domain.Post
	err := q.QueryRow(`
        SELECT `+postColumns+`
        FROM post p LEFT JOIN likes l ON l.post_id = p.id
        WHERE p.id = $1
        GROUP BY p.id`,
		id,
	).Scan(&post.Id, &post.Body, &post.UserId, &post.ImageURL, &post.Likes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, internal_errors.NotFound("Post not found")
		}
		return domain.Post{}, fmt.Errorf("failed to query post: %w", err)
	}
	return post, nil
}

func (s *Storage) posts(q Querier, sorting domain.PostSorting) ([]domain.Post, error) {
	var orderBy string
	switch sorting {
	case domain.SortOld:
		orderBy = "p.id ASC"
	case domain.SortMostLikes:
		orderBy = "likes DESC, p.id DESC"
	default: // domain.SortNew
		orderBy = "p.id DESC"
	}

	rows, err := q.Query(`
        SELECT ` + postColumns + `
        FROM post p LEFT JOIN likes l ON l.post_id = p.id
        GROUP BY p.id
        ORDER BY ` + orderBy)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(&post.Id, &post.Body, &post.UserId, &post.ImageURL, &post.Likes); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

func (s *Storage) updatePostImage(q Querier, id domain.PostId, imageURL string) error {
	result, err := q.Exec("UPDATE post SET image_url = $1 WHERE id = $2", imageURL, id)
	if err != nil {
		return fmt.Errorf("failed to update post image: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for post image update: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("Post not found for image update")
	}
	return nil
}

func (s *Storage) saveComment(q Querier, comment domain.Comment) (domain.CommentId, error) {
	var id int64
	err := q.QueryRow("INSERT INTO comment(body, post_id, user_id) VALUES($1, $2, $3) RETURNING id",
		comment.Body, comment.PostId, comment.UserId).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert comment: %w", err)
	}
	return id, nil
}

func (s *Storage) comments(q Querier, postId domain.PostId) ([]domain.Comment, error) {
	rows, err := q.Query("SELECT id, body, post_id, user_id FROM comment WHERE post_id = $1 ORDER BY id", postId)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(&comment.Id, &comment.Body, &comment.PostId, &comment.UserId); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}

func (s *Storage) saveLike(q Querier, like domain.Like) (int64, error) {
	var id int64
	err := q.QueryRow("INSERT INTO likes(post_id, user_id) VALUES($1, $2) RETURNING id",
		like.PostId, like.UserId).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert like: %w", err)
	}
	return id, nil
}

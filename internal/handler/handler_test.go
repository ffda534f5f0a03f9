package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/socialapi-dev/socialapi/internal/domain"
	"github.com/socialapi-dev/socialapi/internal/middleware"
	"github.com/socialapi-dev/socialapi/internal/service"
)

// --- Mocks ---

type MockAuthService struct {
	MockRegister    func(email, password string) error
	MockConfirm     func(tokenStr string) error
	MockLogin       func(email, password string) (string, error)
	MockCurrentUser func(accessToken string) (domain.User, error)
}

func (m *MockAuthService) Register(email, password string) error {
	if m.MockRegister != nil {
		return m.MockRegister(email, password)
	}
	return nil
}

func (m *MockAuthService) Confirm(tokenStr string) error {
	if m.MockConfirm != nil {
		return m.MockConfirm(tokenStr)
	}
	return nil
}

func (m *MockAuthService) Login(email, password string) (string, error) {
	if m.MockLogin != nil {
		return m.MockLogin(email, password)
	}
	return "access-token", nil
}

func (m *MockAuthService) CurrentUser(accessToken string) (domain.User, error) {
	if m.MockCurrentUser != nil {
		return m.MockCurrentUser(accessToken)
	}
	return domain.User{Id: 1, Email: "alice@example.com", Confirmed: true}, nil
}

type MockPostService struct {
	MockCreatePost       func(userId domain.UserId, body, prompt string) (domain.Post, error)
	MockPosts            func(sorting string) ([]domain.Post, error)
	MockPostWithComments func(postId domain.PostId) (domain.Post, []domain.Comment, error)
	MockCreateComment    func(userId domain.UserId, postId domain.PostId, body string) (domain.Comment, error)
	MockComments         func(postId domain.PostId) ([]domain.Comment, error)
	MockLikePost         func(userId domain.UserId, postId domain.PostId) (domain.Like, error)
}

func (m *MockPostService) CreatePost(userId domain.UserId, body, prompt string) (domain.Post, error) {
	if m.MockCreatePost != nil {
		return m.MockCreatePost(userId, body, prompt)
	}
	return domain.Post{Id: 1, Body: body, UserId: userId}, nil
}

func (m *MockPostService) Posts(sorting string) ([]domain.Post, error) {
	if m.MockPosts != nil {
		return m.MockPosts(sorting)
	}
	return []domain.Post{}, nil
}

func (m *MockPostService) PostWithComments(postId domain.PostId) (domain.Post, []domain.Comment, error) {
	if m.MockPostWithComments != nil {
		return m.MockPostWithComments(postId)
	}
	return domain.Post{Id: postId}, []domain.Comment{}, nil
}

func (m *MockPostService) CreateComment(userId domain.UserId, postId domain.PostId, body string) (domain.Comment, error) {
	if m.MockCreateComment != nil {
		return m.MockCreateComment(userId, postId, body)
	}
	return domain.Comment{Id: 1, Body: body, PostId: postId, UserId: userId}, nil
}

func (m *MockPostService) Comments(postId domain.PostId) ([]domain.Comment, error) {
	if m.MockComments != nil {
		return m.MockComments(postId)
	}
	return []domain.Comment{}, nil
}

func (m *MockPostService) LikePost(userId domain.UserId, postId domain.PostId) (domain.Like, error) {
	if m.MockLikePost != nil {
		return m.MockLikePost(userId, postId)
	}
	return domain.Like{Id: 1, PostId: postId, UserId: userId}, nil
}

type MockUploader struct {
	MockUploadFile func(ctx context.Context, filename string, body io.Reader, contentType string) (string, error)
}

func (m *MockUploader) UploadFile(ctx context.Context, filename string, body io.Reader, contentType string) (string, error) {
	if m.MockUploadFile != nil {
		return m.MockUploadFile(ctx, filename, body, contentType)
	}
	return "https://files.example.com/bucket/" + filename, nil
}

type MockPinger struct {
	MockPing func(ctx context.Context) error
}

func (m *MockPinger) Ping(ctx context.Context) error {
	if m.MockPing != nil {
		return m.MockPing(ctx)
	}
	return nil
}

// --- Helpers ---

// testRouter wires the handler into a chi router with the auth middleware,
// mirroring the production route layout.
func testRouter(auth service.AuthService, posts service.PostService, upload FileUploader, health Pinger) chi.Router {
	h := New(auth, posts, upload, health)
	authMw := middleware.NewAuth(auth)

	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/token", h.Token)
	r.Get("/confirm/{token}", h.Confirm)
	r.Get("/post", h.Posts)
	r.Get("/post/{post_id}", h.Post)
	r.Get("/post/{post_id}/comments", h.Comments)
	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Group(func(r chi.Router) {
		r.Use(authMw.RequireAuth())
		r.Post("/post", h.CreatePost)
		r.Post("/comment", h.CreateComment)
		r.Post("/like", h.LikePost)
		r.Post("/upload", h.Upload)
	})
	return r
}

func createRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func createAuthedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	req := createRequest(t, method, target, body)
	req.Header.Set("Authorization", "Bearer valid-token")
	return req
}

func serve(t *testing.T, router chi.Router, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.NotNil(t, rr)
	return rr
}

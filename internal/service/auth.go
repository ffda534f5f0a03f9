package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/socialapi-dev/socialapi/internal/domain"
	"github.com/socialapi-dev/socialapi/internal/errors"
	"github.com/socialapi-dev/socialapi/internal/logger"
	"github.com/socialapi-dev/socialapi/internal/token"
)

type AuthService interface {
	Register(email, password string) error
	Confirm(tokenStr string) error
	Login(email, password string) (string, error)
	CurrentUser(accessToken string) (domain.User, error)
}

type UserStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	User(email domain.Email) (domain.User, error)
	MarkConfirmed(email domain.Email) error
}

type TokenCodec interface {
	Issue(subject string, typ token.Type) (string, error)
	Resolve(tokenStr string, expected token.Type) (string, error)
}

type Mailer interface {
	SendRegistrationEmail(ctx context.Context, email, confirmationURL string) error
}

type Scheduler interface {
	Schedule(name string, fn func(context.Context) error)
}

type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type Auth struct {
	storage UserStorage
	tokens  TokenCodec
	mailer  Mailer
	tasks   Scheduler
	hasher  Hasher
	baseURL string
}

func NewAuth(storage UserStorage, tokens TokenCodec, mailer Mailer, tasks Scheduler, hasher Hasher, baseURL string) *Auth {
	return &Auth{
		storage: storage,
		tokens:  tokens,
		mailer:  mailer,
		tasks:   tasks,
		hasher:  hasher,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Register creates an unconfirmed user and schedules the confirmation email.
// It returns as soon as the user record exists; delivery happens in the
// background and its failures are never surfaced here.
func (a *Auth) Register(email, password string) error {
	email = strings.ToLower(email)

	_, err := a.storage.User(email)
	if err == nil {
		return errors.BadRequest("A user with this email already exists")
	}
	if !errors.IsNotFound(err) {
		return err
	}

	passHash, err := a.hasher.Hash(password)
	if err != nil {
		return err
	}
	if _, err := a.storage.SaveUser(domain.User{Email: email, PassHash: passHash}); err != nil {
		return err
	}

	confirmationToken, err := a.tokens.Issue(email, token.TypeConfirmation)
	if err != nil {
		logger.Log.Error("failed to create confirmation token", "error", err)
		return err
	}
	confirmationURL := fmt.Sprintf("%s/confirm/%s", a.baseURL, confirmationToken)

	a.tasks.Schedule("registration-email", func(ctx context.Context) error {
		return a.mailer.SendRegistrationEmail(ctx, email, confirmationURL)
	})
	return nil
}

// Confirm redeems a confirmation token and marks the subject confirmed.
// Marking an already confirmed user again is a no-op in the store.
func (a *Auth) Confirm(tokenStr string) error {
	email, err := a.tokens.Resolve(tokenStr, token.TypeConfirmation)
	if err != nil {
		return tokenError(err)
	}
	return a.storage.MarkConfirmed(email)
}

// Login checks credentials and returns an access token.
// Lookup and password failures share one generic message to not leak which
// emails exist. Confirmation is required before login succeeds; the
// "Email not confirmed" answer is only reachable with a correct password,
// so it cannot be used for enumeration either.
func (a *Auth) Login(email, password string) (string, error) {
	email = strings.ToLower(email)

	user, err := a.storage.User(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.Unauthorized("Could not validate credentials")
		}
		return "", err
	}

	if !a.hasher.Verify(password, user.PassHash) {
		return "", errors.Unauthorized("Could not validate credentials")
	}

	if !user.Confirmed {
		return "", &errors.ErrorWithStatusCode{Message: "Email not confirmed", StatusCode: http.StatusForbidden}
	}

	accessToken, err := a.tokens.Issue(user.Email, token.TypeAccess)
	if err != nil {
		logger.Log.Error("failed to create access token", "user_id", user.Id, "error", err)
		return "", err
	}
	return accessToken, nil
}

// CurrentUser resolves the caller identity from a bearer access token.
// A valid token whose subject no longer exists (user deleted after issuance)
// gets the same generic unauthorized answer.
func (a *Auth) CurrentUser(accessToken string) (domain.User, error) {
	email, err := a.tokens.Resolve(accessToken, token.TypeAccess)
	if err != nil {
		return domain.User{}, tokenError(err)
	}

	user, err := a.storage.User(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.User{}, errors.Unauthorized("Could not validate credentials")
		}
		return domain.User{}, err
	}
	return user, nil
}

// tokenError maps codec failures to 401 responses. Expiry keeps its own
// message so clients can tell a stale token from a bad one; the remaining
// kinds get kind-specific details as well.
func tokenError(err error) error {
	switch err {
	case token.ErrExpiredToken:
		return errors.Unauthorized("Token has expired")
	case token.ErrWrongTokenType:
		return errors.Unauthorized("Token has wrong type")
	case token.ErrMissingSubject:
		return errors.Unauthorized("Token is missing a subject")
	default:
		return errors.Unauthorized("Could not validate credentials")
	}
}

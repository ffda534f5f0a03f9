package domain

type UserId = int64
type Email = string

type User struct {
	Id        UserId
	Email     Email
	PassHash  string
	Confirmed bool
}

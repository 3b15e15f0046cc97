package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "unknown"
}

// Error 业务错误：Kind 决定 HTTP 状态码，Reason 是稳定的机器可读原因
type Error struct {
	Kind    ErrorKind
	Reason  string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrUserNotFound          = &Error{KindNotFound, "user", "user not found"}
	ErrDocumentNotFound      = &Error{KindNotFound, "document", "document not found"}
	ErrBorrowingNotFound     = &Error{KindNotFound, "borrowing", "borrowing not found"}
	ErrOpenBorrowingNotFound = &Error{KindNotFound, "open_borrowing", "borrowing not found or already returned"}
	ErrNotificationNotFound  = &Error{KindNotFound, "notification", "notification not found"}

	ErrAlreadyBorrowed   = &Error{KindConflict, "already_borrowed", "document already borrowed"}
	ErrDuplicateCode     = &Error{KindConflict, "duplicate_code", "document code already exists"}
	ErrDuplicateUsername = &Error{KindConflict, "duplicate_username", "username already exists"}
	ErrActiveBorrowings  = &Error{KindConflict, "active_borrowings", "record has active borrowings"}
)

var ErrInvalidCredentials = errors.New("invalid username or password")

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }
func IsConflict(err error) bool { return kindOf(err) == KindConflict }

// isUniqueViolation 兼容 TranslateError 和直接返回的 Postgres 23505
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrSchemeNotFound      = errors.New("scheme not found")
	ErrSchemeExists        = errors.New("this is an existing scheme")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrQuestionExists      = errors.New("question is already in the database")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrPromptNotFound      = errors.New("prompt not found")
	ErrGradingUnavailable  = errors.New("grading model unavailable")
	ErrMissingPlaceholder  = errors.New("prompt template missing required placeholder")
	ErrUserAlreadyInScheme = errors.New("user is already associated with the scheme")
)

package domain

import "errors"

var (
	ErrQuestionNotFound   = errors.New("question not found")
	ErrInvalidQuestionID  = errors.New("invalid question id")
	ErrChoiceNotFound     = errors.New("choice not found")
	ErrInvalidChoice      = errors.New("invalid choice for this question")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrValidation         = errors.New("validation failed")
	ErrInternal           = errors.New("internal server error")
)

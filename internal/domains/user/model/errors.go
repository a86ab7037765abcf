package model

import "foodgram-backend/internal/shared/apperror"

var (
	ErrUserNotFound       = apperror.New(apperror.NotFound, "USER_NOT_FOUND", "user not found")
	ErrEmailAlreadyExists = &apperror.Error{
		Kind:    apperror.Validation,
		Code:    "EMAIL_TAKEN",
		Message: "user with this email already exists",
		Fields:  map[string]string{"email": "user with this email already exists"},
	}
	ErrUsernameAlreadyExists = &apperror.Error{
		Kind:    apperror.Validation,
		Code:    "USERNAME_TAKEN",
		Message: "user with this username already exists",
		Fields:  map[string]string{"username": "user with this username already exists"},
	}
	ErrInvalidCredentials = apperror.New(apperror.Validation, "INVALID_CREDENTIALS", "unable to log in with provided credentials")
	ErrWrongPassword      = &apperror.Error{
		Kind:    apperror.Validation,
		Code:    "WRONG_PASSWORD",
		Message: "current password is incorrect",
		Fields:  map[string]string{"current_password": "current password is incorrect"},
	}
	ErrUnauthenticated = apperror.New(apperror.Unauthenticated, "UNAUTHENTICATED", "authentication credentials were not provided")
)

package service

import (
	"net/http"

	commonerrors "github.com/mailsign/signup-backend/internal/common/errors"
)

// Wire messages are part of the public contract and must match the client
// expectations byte for byte. "User not found" and "Invalid password" being
// distinct enables account enumeration; kept as-is deliberately, see
// DESIGN.md.
var (
	ErrFieldsRequired = commonerrors.NewDomainError(
		"FIELDS_REQUIRED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"fields are required",
	)

	ErrInvalidEmail = commonerrors.NewDomainError(
		"INVALID_EMAIL",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Invalid email address",
	)

	ErrUserAlreadyExists = commonerrors.NewDomainError(
		"USER_ALREADY_EXISTS",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"User already exists",
	)

	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusBadRequest,
		"User not found",
	)

	ErrInvalidPassword = commonerrors.NewDomainError(
		"INVALID_PASSWORD",
		commonerrors.CategoryAuth,
		http.StatusBadRequest,
		"Invalid password",
	)

	ErrEmailDispatchFailed = commonerrors.NewDomainError(
		"EMAIL_DISPATCH_FAILED",
		commonerrors.CategoryExternal,
		http.StatusInternalServerError,
		"Failed to send email",
	)

	ErrLogoutFailed = commonerrors.NewDomainError(
		"LOGOUT_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"Could not log out, please try again.",
	)
)

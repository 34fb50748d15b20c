package facade

import (
	"context"
	"errors"
	"net"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	apperrors "github.com/vindepemarte/Kiro-App-1-sub000/errors"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
)

// normalize folds backend-specific failures into the shared taxonomy so
// callers and the retry loop never see a raw driver error. Errors that are
// already classified pass through untouched.
func normalize(err error) error {
	if err == nil {
		return nil
	}

	var appErr apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, usecaseErrors.ErrMeetingNotFound):
		return withCause(apperrors.ErrNotFound("meeting"), err)
	case errors.Is(err, usecaseErrors.ErrTeamNotFound):
		return withCause(apperrors.ErrNotFound("team"), err)
	case errors.Is(err, usecaseErrors.ErrMemberNotFound):
		return withCause(apperrors.ErrNotFound("team member"), err)
	case errors.Is(err, usecaseErrors.ErrProfileNotFound):
		return withCause(apperrors.ErrNotFound("user profile"), err)
	case errors.Is(err, usecaseErrors.ErrNotificationNotFound):
		return withCause(apperrors.ErrNotFound("notification"), err)
	case errors.Is(err, usecaseErrors.ErrNotFound):
		return withCause(apperrors.ErrNotFound("resource"), err)
	case errors.Is(err, usecaseErrors.ErrAlreadyExists):
		return withCause(apperrors.ErrAlreadyExists("resource"), err)
	case errors.Is(err, usecaseErrors.ErrInvalidInput):
		return withCause(apperrors.ErrValidation(err.Error()), err)
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, mongo.ErrNoDocuments):
		return withCause(apperrors.ErrNotFound("resource"), err)
	case errors.Is(err, gorm.ErrDuplicatedKey), mongo.IsDuplicateKeyError(err):
		return withCause(apperrors.ErrAlreadyExists("resource"), err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.ErrTimeout(err)
	case errors.Is(err, context.Canceled):
		return apperrors.ErrTimeout(err)
	}

	if mongo.IsTimeout(err) {
		return apperrors.ErrTimeout(err)
	}
	if mongo.IsNetworkError(err) {
		return apperrors.ErrNetwork(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return apperrors.ErrTimeout(err)
		}
		return apperrors.ErrNetwork(err)
	}

	return apperrors.ErrUnknown(err)
}

// withCause keeps the original error in the chain so sentinel identity
// survives normalization: errors.Is still matches through AppError.Unwrap.
func withCause(appErr apperrors.AppError, cause error) apperrors.AppError {
	appErr.Raw = cause
	return appErr
}

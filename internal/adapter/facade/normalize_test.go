package facade

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	apperrors "github.com/vindepemarte/Kiro-App-1-sub000/errors"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code apperrors.ErrorCode
	}{
		{"meeting not found", usecaseErrors.ErrMeetingNotFound, apperrors.ErrorCode_NOT_FOUND},
		{"team not found", usecaseErrors.ErrTeamNotFound, apperrors.ErrorCode_NOT_FOUND},
		{"profile not found", usecaseErrors.ErrProfileNotFound, apperrors.ErrorCode_NOT_FOUND},
		{"already exists", usecaseErrors.ErrAlreadyExists, apperrors.ErrorCode_ALREADY_EXISTS},
		{"invalid input", usecaseErrors.ErrInvalidInput, apperrors.ErrorCode_VALIDATION},
		{"gorm record not found", gorm.ErrRecordNotFound, apperrors.ErrorCode_NOT_FOUND},
		{"mongo no documents", mongo.ErrNoDocuments, apperrors.ErrorCode_NOT_FOUND},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, apperrors.ErrorCode_ALREADY_EXISTS},
		{"deadline exceeded", context.DeadlineExceeded, apperrors.ErrorCode_TIMEOUT},
		{"canceled", context.Canceled, apperrors.ErrorCode_TIMEOUT},
		{"unclassified", errors.New("boom"), apperrors.ErrorCode_UNKNOWN},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalize(tc.err)
			if code := apperrors.CodeOf(got); code != tc.code {
				t.Fatalf("expected %s, got %s (%v)", tc.code, code, got)
			}
		})
	}
}

func TestNormalize_NilAndPassthrough(t *testing.T) {
	if normalize(nil) != nil {
		t.Fatal("nil must stay nil")
	}

	classified := apperrors.ErrPermissionDenied("delete team")
	got := normalize(classified)
	if apperrors.CodeOf(got) != apperrors.ErrorCode_PERMISSION_DENIED {
		t.Fatalf("classified errors must pass through, got %v", got)
	}
}

func TestNormalize_PreservesSentinelIdentity(t *testing.T) {
	got := normalize(usecaseErrors.ErrTeamNotFound)
	if !errors.Is(got, usecaseErrors.ErrTeamNotFound) {
		t.Fatalf("sentinel lost through normalization: %v", got)
	}
	if !errors.Is(normalize(usecaseErrors.ErrProfileNotFound), usecaseErrors.ErrProfileNotFound) {
		t.Fatal("profile sentinel lost through normalization")
	}
}

func TestNormalize_RetryabilitySplit(t *testing.T) {
	if apperrors.IsRetryable(normalize(usecaseErrors.ErrMeetingNotFound)) {
		t.Fatal("not found must not be retryable")
	}
	if apperrors.IsRetryable(normalize(usecaseErrors.ErrInvalidInput)) {
		t.Fatal("validation must not be retryable")
	}
	if !apperrors.IsRetryable(normalize(context.DeadlineExceeded)) {
		t.Fatal("timeout must be retryable")
	}
	if !apperrors.IsRetryable(normalize(errors.New("boom"))) {
		t.Fatal("unknown must default to retryable")
	}
}

package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/errors"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging. Service sentinel
// errors are folded into the shared taxonomy first so every response body
// carries a stable machine code.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := toAppError(err)

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.String("app_code", appErr.Code.String()),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}
	body := errs{
		Code:    appErr.Code.String(),
		Message: appErr.Message,
		Info:    info,
	}
	return c.JSON(appErr.HTTPCode, body)
}

// toAppError maps service sentinel errors onto AppError.
func toAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput),
		stdErrors.Is(err, usecaseErrors.ErrEmptyMeeting),
		stdErrors.Is(err, usecaseErrors.ErrEmptyTranscript):
		return errors.ErrValidation(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrForbidden),
		stdErrors.Is(err, usecaseErrors.ErrNotTeamAdmin),
		stdErrors.Is(err, usecaseErrors.ErrNotTeamCreator):
		return errors.ErrPermissionDenied(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrMeetingNotFound):
		return errors.ErrNotFound("meeting")
	case stdErrors.Is(err, usecaseErrors.ErrTeamNotFound):
		return errors.ErrNotFound("team")
	case stdErrors.Is(err, usecaseErrors.ErrMemberNotFound):
		return errors.ErrNotFound("team member")
	case stdErrors.Is(err, usecaseErrors.ErrActionItemNotFound):
		return errors.ErrNotFound("action item")
	case stdErrors.Is(err, usecaseErrors.ErrInvitationNotFound):
		return errors.ErrNotFound("invitation")
	case stdErrors.Is(err, usecaseErrors.ErrUserNotFound):
		return errors.ErrNotFound("user")
	case stdErrors.Is(err, usecaseErrors.ErrProfileNotFound):
		return errors.ErrNotFound("user profile")
	case stdErrors.Is(err, usecaseErrors.ErrNotificationNotFound):
		return errors.ErrNotFound("notification")
	case stdErrors.Is(err, usecaseErrors.ErrNotFound):
		return errors.ErrNotFound("resource")
	case stdErrors.Is(err, usecaseErrors.ErrAlreadyExists):
		return errors.ErrAlreadyExists("resource")
	case stdErrors.Is(err, usecaseErrors.ErrAlreadyMember),
		stdErrors.Is(err, usecaseErrors.ErrAlreadyInvited):
		return errors.ErrAlreadyExists("team member")
	case stdErrors.Is(err, usecaseErrors.ErrDuplicateActionItem):
		return errors.ErrAlreadyExists("action item")
	}

	return errors.ErrUnknown(err)
}

package editor

import (
	"odinpos/infrastructure/apperr"
	"odinpos/infrastructure/printtemplate"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a message for the editor's toast area.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func Success(message string) Notification {
	return Notification{Level: LevelSuccess, Message: message}
}

// Notify turns a user-facing error into a notification. Programmer errors
// (invalid arguments, internal failures) are returned unchanged for the
// caller to fail hard. A nil error yields a zero Notification.
func Notify(err error) (Notification, error) {
	if err == nil {
		return Notification{}, nil
	}
	if !apperr.IsUserFacing(err) {
		return Notification{}, err
	}

	typed := apperr.As(err)
	switch typed.Code() {
	case apperr.CodeValidation:
		msg := typed.Message()
		if issues, ok := typed.Details().([]printtemplate.Issue); ok && len(issues) > 0 {
			msg += ": " + issues[0].Message
		}
		return Notification{Level: LevelError, Message: msg}, nil
	case apperr.CodeInvalidOperation:
		return Notification{Level: LevelWarning, Message: typed.Message()}, nil
	}
	return Notification{Level: LevelError, Message: apperr.MetadataFor(typed.Code()).PublicMessage}, nil
}

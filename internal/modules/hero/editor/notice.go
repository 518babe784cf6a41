package editor

import (
	"errors"
	"strings"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Operation string

const (
	OpCreate   Operation = "create"
	OpUpdate   Operation = "update"
	OpDelete   Operation = "delete"
	OpActivate Operation = "activate"
	OpRefresh  Operation = "refresh"
	OpUpload   Operation = "upload"
	OpLookup   Operation = "lookup"
)

// Notice is a dismissible message for the operator. The UI decides how and
// whether to show it.
type Notice struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
}

// userMessager is implemented by remote errors that carry a server message.
type userMessager interface {
	UserMessage() string
}

const genericFailure = "Something went wrong. Please try again."

// NoticeFor describes the outcome of op. A nil error yields a success notice.
func NoticeFor(op Operation, err error) Notice {
	if err == nil {
		return Notice{Level: LevelSuccess, Title: successTitle(op)}
	}

	var ve *hero.ValidationError
	switch {
	case errors.As(err, &ve):
		return Notice{Level: LevelWarning, Title: "Please fix the highlighted fields", Message: ve.Error()}
	case errors.Is(err, hero.ErrDuplicateKey):
		return Notice{Level: LevelWarning, Title: "Duplicate variant key", Message: hero.ErrDuplicateKey.Error()}
	case errors.Is(err, hero.ErrProtectedActiveRecord):
		return Notice{Level: LevelWarning, Title: "Cannot delete the active variant", Message: "Activate another variant first, then delete this one."}
	case errors.Is(err, hero.ErrNotFound):
		return Notice{Level: LevelError, Title: "Variant not found", Message: "It may have been deleted in another session. The list has been refreshed."}
	case errors.Is(err, ErrWriteInFlight):
		return Notice{Level: LevelInfo, Title: "Please wait", Message: "Another change is still being saved."}
	case errors.Is(err, ErrNotConfirmed):
		return Notice{Level: LevelInfo, Title: "Deletion cancelled"}
	}

	msg := ""
	var um userMessager
	if errors.As(err, &um) {
		msg = strings.TrimSpace(um.UserMessage())
	}
	if msg == "" {
		msg = genericFailure
	}
	return Notice{Level: LevelError, Title: failureTitle(op), Message: msg}
}

func successTitle(op Operation) string {
	switch op {
	case OpCreate:
		return "Variant created"
	case OpUpdate:
		return "Variant updated"
	case OpDelete:
		return "Variant deleted"
	case OpActivate:
		return "Variant activated"
	case OpUpload:
		return "Image uploaded"
	default:
		return "Done"
	}
}

func failureTitle(op Operation) string {
	switch op {
	case OpCreate:
		return "Could not create variant"
	case OpUpdate:
		return "Could not update variant"
	case OpDelete:
		return "Could not delete variant"
	case OpActivate:
		return "Could not activate variant"
	case OpRefresh:
		return "Could not load variants"
	case OpUpload:
		return "Upload failed"
	case OpLookup:
		return "Catalog search failed"
	default:
		return "Request failed"
	}
}

package server

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	minNameLength      = 2
	maxNameLength      = 20
	minStatementLength = 6
	maxStatementLength = 280
	maxRoomNameLength  = 64
	roomCodeLength     = 4
)

var validate = newValidator()

func newValidator() *validator.Validate {
	engine := validator.New()
	_ = engine.RegisterValidation("votechoice", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == choiceTruth || value == choiceLie
	})
	return engine
}

func validateCode(code string) error {
	if len(code) != roomCodeLength {
		return validationError("room code must be exactly %d digits", roomCodeLength)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return validationError("room code must be exactly %d digits", roomCodeLength)
		}
	}
	return nil
}

// Minimum lengths count runes so non-ASCII names and statements are
// measured the way players see them; maximums stay byte-based to bound
// storage.
func validateName(name string) (string, error) {
	trimmed := normalizeText(name)
	if utf8.RuneCountInString(trimmed) < minNameLength {
		return "", validationError("name must be at least %d characters", minNameLength)
	}
	if len(trimmed) > maxNameLength {
		return "", validationError("name must be %d characters or fewer", maxNameLength)
	}
	return trimmed, nil
}

func validateStatement(statement string) (string, error) {
	trimmed := strings.TrimSpace(statement)
	if utf8.RuneCountInString(trimmed) < minStatementLength {
		return "", validationError("truth statement must be at least %d characters", minStatementLength)
	}
	if len(trimmed) > maxStatementLength {
		return "", validationError("truth statement must be %d characters or fewer", maxStatementLength)
	}
	return trimmed, nil
}

func validateRoomName(name, fallback string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return fallback, nil
	}
	if len(trimmed) > maxRoomNameLength {
		return "", validationError("room name must be %d characters or fewer", maxRoomNameLength)
	}
	return trimmed, nil
}

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
			return validationError("invalid %s", strings.ToLower(fieldErrors[0].Field()))
		}
		return validationError("invalid request")
	}
	return nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

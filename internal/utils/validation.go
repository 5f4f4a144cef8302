package utils

import (
	"errors"
	"regexp"
)

// Compiled regular expressions for validation
var (
	// Allow alphanumeric, underscore, hyphen, dot - chat user ids and API keys
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	// Vehicle numbers carry letter suffixes ("28к") but never the token separator.
	validVehicleNumberPattern = regexp.MustCompile(`^[\p{L}\p{N}.-]+$`)
)

const (
	MaxIDLength            = 64
	MaxVehicleNumberLength = 16
)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > MaxIDLength {
		return errors.New("id too long (max 64 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateVehicleNumber checks a vehicle number can travel inside a navigation token.
func ValidateVehicleNumber(number string) error {
	if number == "" {
		return errors.New("vehicle number cannot be empty")
	}

	if len([]rune(number)) > MaxVehicleNumberLength {
		return errors.New("vehicle number too long (max 16 characters)")
	}

	if !validVehicleNumberPattern.MatchString(number) {
		return errors.New("vehicle number contains invalid characters")
	}

	return nil
}

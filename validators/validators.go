package validators

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/Tanish431/CC-BackProj-3/models"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)

func ValidateString(field, val string, minLen, maxLen int) error {
	length := utf8.RuneCountInString(val)
	if length < minLen || length > maxLen {
		return fmt.Errorf("%s must be between %d and %d characters", field, minLen, maxLen)
	}
	return nil
}

func ValidateCredentials(creds *models.Credentials) error {
	if err := ValidateString("username", creds.Username, 3, 64); err != nil {
		return err
	}
	if !usernameRegex.MatchString(creds.Username) {
		return fmt.Errorf("username may contain only letters, digits, '_', '.' and '-'")
	}
	if err := ValidateString("password", creds.Password, 8, 72); err != nil {
		return err
	}
	return nil
}

func ValidateNewItem(req *models.NewItemRequest) error {
	if err := ValidateString("name", req.Name, 1, 255); err != nil {
		return err
	}
	if req.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if req.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}
	return nil
}

func ValidateItemUpdate(req *models.UpdateItemRequest) error {
	if req.Name != nil {
		if err := ValidateString("name", *req.Name, 1, 255); err != nil {
			return err
		}
	}
	if req.Price != nil && *req.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}

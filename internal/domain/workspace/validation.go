package workspace

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/Strob0t/taskgraph/internal/domain"
)

const (
	maxNameLen        = 255
	maxDescriptionLen = 2000
)

// Validate checks a workspace creation request.
func (r CreateRequest) Validate() error {
	if err := validateName(r.Name); err != nil {
		return err
	}
	if len(r.Description) > maxDescriptionLen {
		return fmt.Errorf("description exceeds %d characters: %w", maxDescriptionLen, domain.ErrValidation)
	}
	return nil
}

// Validate checks a new member. Role is free text and may be empty.
func (r AddMemberRequest) Validate() error {
	if err := validateName(r.Name); err != nil {
		return err
	}
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email is required: %w", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("email %q is not a valid address: %w", r.Email, domain.ErrValidation)
	}
	if len(r.Role) > maxNameLen {
		return fmt.Errorf("role exceeds %d characters: %w", maxNameLen, domain.ErrValidation)
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("name exceeds %d characters: %w", maxNameLen, domain.ErrValidation)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("name contains control characters: %w", domain.ErrValidation)
		}
	}
	return nil
}

package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/kaanoon/internal/common"
)

// MinPasswordLength is the shortest password the signup form accepts.
const MinPasswordLength = 8

// dateLayout is the wire format of DateOfBirth.
const dateLayout = "2006-01-02"

// SignupDraft is the registration form held between signup submission and
// OTP verification. ConfirmPassword only takes part in validation and is
// never sent to the backend.
type SignupDraft struct {
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	DateOfBirth      string `json:"date_of_birth"`
	OrganizationType string `json:"organization_type"`
	OrganizationName string `json:"organization_name"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"-"`
}

// Normalize trims text fields and fills the default organization type.
func (d *SignupDraft) Normalize() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.TrimSpace(d.Email)
	d.DateOfBirth = strings.TrimSpace(d.DateOfBirth)
	d.OrganizationType = strings.TrimSpace(d.OrganizationType)
	d.OrganizationName = strings.TrimSpace(d.OrganizationName)
	if d.OrganizationType == "" {
		d.OrganizationType = common.DefaultOrganizationType
	}
}

// Validate runs the signup form checks in display order and returns the
// first failure as a *ValidationError.
func (d *SignupDraft) Validate() error {
	if strings.TrimSpace(d.FullName) == "" {
		return invalid("full_name", "Full name is required")
	}
	if !ValidEmail(d.Email) {
		return invalid("email", "Valid email is required")
	}
	dob := strings.TrimSpace(d.DateOfBirth)
	if dob == "" {
		return invalid("date_of_birth", "Date of birth is required")
	}
	if _, err := time.Parse(dateLayout, dob); err != nil {
		return invalid("date_of_birth", "Date of birth must be in YYYY-MM-DD format")
	}
	if strings.TrimSpace(d.OrganizationName) == "" {
		return invalid("organization_name", "Organization name is required")
	}
	if utf8.RuneCountInString(d.Password) < MinPasswordLength {
		return invalid("password", "Password must be at least 8 characters long")
	}
	if d.Password != d.ConfirmPassword {
		return invalid("confirm_password", "Passwords do not match")
	}
	return nil
}

// ValidEmail is the same loose shape check the signup form applies.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && strings.Contains(email, "@")
}

// ValidateLogin checks the login form before it is submitted.
func ValidateLogin(email string, password []byte) error {
	if !ValidEmail(email) {
		return invalid("email", "Valid email is required")
	}
	if len(password) == 0 {
		return invalid("password", "Password is required")
	}
	return nil
}

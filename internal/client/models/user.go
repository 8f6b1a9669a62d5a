package models

import "strings"

// UserProfile is the "who am I" payload returned by the backend. The client
// never mutates it; a re-fetch replaces it wholesale.
type UserProfile struct {
	Email            string `json:"email"`
	FullName         string `json:"full_name"`
	OrganizationName string `json:"organization_name"`
	OrganizationType string `json:"organization_type"`
	DateOfBirth      string `json:"date_of_birth"`
}

// Valid reports whether the profile identifies a user at all.
func (p *UserProfile) Valid() bool {
	return p != nil && strings.TrimSpace(p.Email) != ""
}

// Initials returns up to two upper-cased initials of FullName, or "U".
func (p *UserProfile) Initials() string {
	if p == nil {
		return "U"
	}
	var initials []rune
	for _, w := range strings.Fields(p.FullName) {
		initials = append(initials, []rune(strings.ToUpper(w))[0])
		if len(initials) == 2 {
			break
		}
	}
	if len(initials) == 0 {
		return "U"
	}
	return string(initials)
}

// OrganizationTypeLabel renders OrganizationType for display:
// "law_firm" becomes "Law Firm". Empty types render as "Not set".
func (p *UserProfile) OrganizationTypeLabel() string {
	if p == nil || p.OrganizationType == "" {
		return "Not set"
	}
	words := strings.Fields(strings.ReplaceAll(p.OrganizationType, "_", " "))
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

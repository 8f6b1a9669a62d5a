package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/kaanoon/internal/client/models"
)

// Profile prints the signed-in user's card.
func (a *App) Profile(_ context.Context) error {
	st := a.session.State()
	if !st.Authenticated {
		printlnFn("Please sign in first.")
		return nil
	}
	for _, line := range profileCard(st.User) {
		printlnFn(line)
	}
	return nil
}

func profileCard(p *models.UserProfile) []string {
	name := p.FullName
	if name == "" {
		name = p.Email
	}
	orgName := p.OrganizationName
	if orgName == "" {
		orgName = "Not set"
	}
	dob := p.DateOfBirth
	if dob == "" {
		dob = "Not set"
	}

	return []string{
		fmt.Sprintf("[%s] %s", p.Initials(), name),
		fmt.Sprintf("  Email:         %s", p.Email),
		fmt.Sprintf("  Organization:  %s", orgName),
		fmt.Sprintf("  Type:          %s", p.OrganizationTypeLabel()),
		fmt.Sprintf("  Date of birth: %s", dob),
	}
}

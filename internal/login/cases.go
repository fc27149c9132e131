package login

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lantern/internal/suite"
)

// DefaultBaseURL is the public demo site the suite runs against when no
// override is configured.
const DefaultBaseURL = "https://the-internet.herokuapp.com"

// Known credentials on the demo site.
const (
	ValidUsername   = "tomsmith"
	ValidPassword   = "SuperSecretPassword!"
	InvalidUsername = "invaliduser"
	InvalidPassword = "wrongpassword"
)

// Cases returns the login scenarios against the given base URL.
func Cases(baseURL string) []suite.Case {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return []suite.Case{
		{
			ID:   "test_successful_login",
			Name: "successful login with valid credentials",
			Call: func(ctx context.Context, s suite.Session) error {
				return successfulLogin(ctx, s, baseURL)
			},
		},
		{
			ID:   "test_unsuccessful_login",
			Name: "login rejected for unknown user",
			Call: func(ctx context.Context, s suite.Session) error {
				return rejectedLogin(ctx, s, baseURL, InvalidUsername, InvalidPassword, "Your username is invalid!")
			},
		},
		{
			ID:   "test_invalid_password",
			Name: "login rejected for valid user with wrong password",
			Call: func(ctx context.Context, s suite.Session) error {
				return rejectedLogin(ctx, s, baseURL, ValidUsername, InvalidPassword, "Your password is invalid!")
			},
		},
		{
			ID:   "test_empty_credentials",
			Name: "login rejected for empty credentials",
			Call: func(ctx context.Context, s suite.Session) error {
				return rejectedLogin(ctx, s, baseURL, "", "", "")
			},
		},
		{
			ID:   "test_ui_elements_presence",
			Name: "login form elements are present",
			Call: func(ctx context.Context, s suite.Session) error {
				return formElementsPresent(ctx, s, baseURL)
			},
		},
	}
}

// page asserts the session supports element operations and opens the form.
func page(ctx context.Context, s suite.Session, baseURL string) (*Page, error) {
	drv, ok := s.(Driver)
	if !ok {
		return nil, errors.New("session does not support element operations")
	}
	p := NewPage(drv, baseURL)
	if err := p.Open(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func successfulLogin(ctx context.Context, s suite.Session, baseURL string) error {
	p, err := page(ctx, s, baseURL)
	if err != nil {
		return err
	}
	if err := p.SubmitCredentials(ctx, ValidUsername, ValidPassword); err != nil {
		return err
	}
	if !p.LoggedIn(ctx) {
		return errors.New("valid credentials were not accepted")
	}
	msg, err := p.SuccessMessage(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(msg, "You logged into a secure area!") {
		return fmt.Errorf("unexpected success banner: %q", msg)
	}
	loc, err := p.Location(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(loc, "secure") {
		return fmt.Errorf("expected the secure area, landed on %s", loc)
	}
	n, err := p.LogoutLinks(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("logout link missing after login")
	}
	return nil
}

func rejectedLogin(ctx context.Context, s suite.Session, baseURL, username, password, wantErr string) error {
	p, err := page(ctx, s, baseURL)
	if err != nil {
		return err
	}
	if err := p.SubmitCredentials(ctx, username, password); err != nil {
		return err
	}
	if !p.Rejected(ctx) {
		return errors.New("invalid credentials were accepted")
	}
	if wantErr != "" {
		msg, err := p.ErrorMessage(ctx)
		if err != nil {
			return err
		}
		if !strings.Contains(msg, wantErr) {
			return fmt.Errorf("error banner %q does not mention %q", msg, wantErr)
		}
	}
	loc, err := p.Location(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(loc, "login") {
		return fmt.Errorf("expected to stay on the login page, landed on %s", loc)
	}
	n, err := p.LogoutLinks(ctx)
	if err != nil {
		return err
	}
	if n != 0 {
		return errors.New("logout link present after rejected login")
	}
	return nil
}

func formElementsPresent(ctx context.Context, s suite.Session, baseURL string) error {
	p, err := page(ctx, s, baseURL)
	if err != nil {
		return err
	}
	drv := p.drv

	title, err := drv.Title(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(title, "The Internet") {
		return fmt.Errorf("unexpected page title %q", title)
	}

	for _, sel := range []string{usernameField, passwordField, submitButton} {
		n, err := drv.Count(ctx, sel)
		if err != nil {
			return err
		}
		if n != 1 {
			return fmt.Errorf("selector %q matched %d elements, want 1", sel, n)
		}
	}

	buttonText, err := drv.Text(ctx, submitButton)
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(buttonText), "login") {
		return fmt.Errorf("submit button text %q is not a login label", buttonText)
	}
	return nil
}

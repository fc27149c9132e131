// Package login holds the page object and test cases for the demo
// site's login form. The page object consumes a narrow Driver interface
// so the cases run against a real browser session or a fake.
package login

import (
	"context"
	"fmt"
	"strings"
)

// Driver is the element-level surface the page object drives. A
// browser session satisfies it.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	CurrentLocation(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	WaitVisible(ctx context.Context, selector string) error
	Click(ctx context.Context, selector string) error
	SendKeys(ctx context.Context, selector, value string) error
	Text(ctx context.Context, selector string) (string, error)
	Count(ctx context.Context, selector string) (int, error)
}

// Form locators.
const (
	usernameField = "#username"
	passwordField = "#password"
	submitButton  = `button[type="submit"]`
	successFlash  = ".flash.success"
	errorFlash    = ".flash.error"
	logoutLink    = `a[href="/logout"]`
)

// Page is the login form page object.
type Page struct {
	drv     Driver
	baseURL string
}

// NewPage binds a page object to a driver and site base URL.
func NewPage(drv Driver, baseURL string) *Page {
	return &Page{drv: drv, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// URL returns the login page address.
func (p *Page) URL() string { return p.baseURL + "/login" }

// Open navigates to the login form and waits until it is usable.
func (p *Page) Open(ctx context.Context) error {
	if err := p.drv.Navigate(ctx, p.URL()); err != nil {
		return err
	}
	if err := p.drv.WaitVisible(ctx, usernameField); err != nil {
		return fmt.Errorf("login form did not appear: %w", err)
	}
	loc, err := p.drv.CurrentLocation(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(loc), "login") {
		return fmt.Errorf("expected the login page, landed on %s", loc)
	}
	return nil
}

// SubmitCredentials fills both fields and submits the form.
func (p *Page) SubmitCredentials(ctx context.Context, username, password string) error {
	if err := p.drv.SendKeys(ctx, usernameField, username); err != nil {
		return err
	}
	if err := p.drv.SendKeys(ctx, passwordField, password); err != nil {
		return err
	}
	return p.drv.Click(ctx, submitButton)
}

// LoggedIn waits for an indication of a successful login: the success
// banner or the logout link.
func (p *Page) LoggedIn(ctx context.Context) bool {
	if err := p.drv.WaitVisible(ctx, successFlash); err == nil {
		return true
	}
	n, err := p.drv.Count(ctx, logoutLink)
	return err == nil && n > 0
}

// Rejected waits for the error banner shown on a failed login.
func (p *Page) Rejected(ctx context.Context) bool {
	return p.drv.WaitVisible(ctx, errorFlash) == nil
}

// SuccessMessage returns the trimmed success banner text.
func (p *Page) SuccessMessage(ctx context.Context) (string, error) {
	text, err := p.drv.Text(ctx, successFlash)
	if err != nil {
		return "", fmt.Errorf("success banner: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// ErrorMessage returns the trimmed error banner text.
func (p *Page) ErrorMessage(ctx context.Context) (string, error) {
	text, err := p.drv.Text(ctx, errorFlash)
	if err != nil {
		return "", fmt.Errorf("error banner: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Location returns the driver's current address.
func (p *Page) Location(ctx context.Context) (string, error) {
	return p.drv.CurrentLocation(ctx)
}

// LogoutLinks returns how many logout links are present.
func (p *Page) LogoutLinks(ctx context.Context) (int, error) {
	return p.drv.Count(ctx, logoutLink)
}

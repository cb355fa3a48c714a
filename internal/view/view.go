// Package view renders the HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"userportal/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names.
const (
	PageLogin            = "login"
	PageSignup           = "signup"
	PageHome             = "home"
	PageAdminLogin       = "admin_login"
	PageDashboard        = "dashboard"
	PageUser             = "user"
	PageRedirectToSignup = "redirect_to_signup"
	PageLinkAccount      = "link_account"
)

// FormPage is the data of the login, signup and admin login forms.
type FormPage struct {
	Message       string
	GoogleEnabled bool
}

// HomePage greets the logged-in account.
type HomePage struct {
	User    string
	IsAdmin bool
}

// DashboardPage lists the non-administrator accounts.
type DashboardPage struct {
	Users []model.User
}

// UserPage shows one account with its edit and delete forms.
type UserPage struct {
	User *model.User
}

// SignupRedirectPage is shown when a federated identity has no local account.
type SignupRedirectPage struct {
	Name string
}

// LinkAccountPage asks for the local password before linking an identity.
type LinkAccountPage struct {
	Name    string
	Token   string
	Message string
}

// Renderer implements echo.Renderer. Each page is parsed together with the
// shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	names := []string{
		PageLogin, PageSignup, PageHome, PageAdminLogin,
		PageDashboard, PageUser, PageRedirectToSignup, PageLinkAccount,
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page using the layout.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

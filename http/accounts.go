package http

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"yatube/auth"
	"yatube/domain"
	"yatube/errs"
)

func (s *Server) registerAccountRoutes(r *mux.Router) {
	r.HandleFunc("/auth/signup/", s.handleSignup).Methods("GET", "POST")
	r.HandleFunc("/auth/login/", s.handleLogin).Methods("GET", "POST")
	r.HandleFunc("/auth/logout/", s.requireAuth(s.handleLogout)).Methods("POST")
}

type signupData struct {
	User      *domain.User
	Username  string
	Email     string
	Error     string
	CSRFField template.HTML
}

// handleSignup handles the route "GET/POST /auth/signup/".
// A successful signup logs the new user in right away.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.render(w, r, "signup.html", signupData{
			User:      auth.GetUser(r.Context()),
			CSRFField: csrf.TemplateField(r),
		})
		return
	}

	user := &domain.User{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := s.us.Create(user); err != nil {
		switch errs.ErrorCode(err) {
		case errs.EINVALID, errs.ECONFLICT:
			s.render(w, r, "signup.html", signupData{
				Username:  user.Username,
				Email:     user.Email,
				Error:     errs.ErrorMessage(err),
				CSRFField: csrf.TemplateField(r),
			})
		default:
			errs.ReturnError(w, r, err)
		}
		return
	}

	if err := s.signIn(w, r, user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

type loginData struct {
	User      *domain.User
	Username  string
	Next      string
	Error     string
	CSRFField template.HTML
}

// handleLogin handles the route "GET/POST /auth/login/".
// The next parameter carries the path the user originally requested, they
// are sent back there after a successful login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.render(w, r, "login.html", loginData{
			User:      auth.GetUser(r.Context()),
			Next:      safeNext(r.URL.Query().Get("next")),
			CSRFField: csrf.TemplateField(r),
		})
		return
	}

	username := r.PostFormValue("username")
	next := safeNext(r.PostFormValue("next"))

	user, err := s.us.Authenticate(username, r.PostFormValue("password"))
	if err != nil {
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			s.render(w, r, "login.html", loginData{
				Username:  username,
				Next:      next,
				Error:     errs.ErrorMessage(err),
				CSRFField: csrf.TemplateField(r),
			})
		default:
			errs.ReturnError(w, r, err)
		}
		return
	}

	if err := s.signIn(w, r, user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if next == "" {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusFound)
}

// handleLogout handles the route "POST /auth/logout/".
// It rotates the user's remember token, so every device holding the old
// cookie is logged out too, then clears the cookie and goes to the index.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	token, err := auth.MakeRememberToken()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user.Remember = token
	if err := s.us.Update(user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "remember_token",
		Value:    "",
		Expires:  time.Now(),
		HttpOnly: true,
		Path:     "/",
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// signIn is used to sign the given user in via cookies.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	if user.Remember == "" {
		token, err := auth.MakeRememberToken()
		if err != nil {
			return err
		}
		user.Remember = token
		if err := s.us.Update(user); err != nil {
			return err
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "remember_token",
		Value:    user.Remember,
		HttpOnly: true,
		Path:     "/",
	})
	return nil
}

// safeNext keeps login redirects on this site. Anything that is not a
// plain absolute path (e.g. "//evil.example") is discarded.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"yatube/auth"
	"yatube/domain"
	"yatube/errs"
)

func (s *Server) registerProfileRoutes(r *mux.Router) {
	r.HandleFunc("/profile/{username}/", s.handleProfile).Methods("GET")
	r.HandleFunc("/profile/{username}/follow/", s.requireAuth(s.handleFollow)).Methods("GET")
	r.HandleFunc("/profile/{username}/unfollow/", s.requireAuth(s.handleUnfollow)).Methods("GET")
}

type profileData struct {
	User      *domain.User
	Author    *domain.User
	Page      *domain.Page
	Following bool
}

// handleProfile handles the route "GET /profile/{username}/".
// It renders the author's posts, newest first, plus a flag telling the
// template whether the requesting user already follows this author.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	author, err := s.us.ByUsername(mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	page, err := s.ps.ByAuthor(author.ID, pageNumber(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	following := false
	user := auth.GetUser(r.Context())
	if user != nil && user.ID != author.ID {
		following, err = s.fs.Exists(user.ID, author.ID)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
	}

	s.render(w, r, "profile.html", profileData{
		User:      user,
		Author:    author,
		Page:      page,
		Following: following,
	})
}

// handleFollow handles the route "GET /profile/{username}/follow/".
// It creates a follow edge towards the author. Following yourself or an
// author you already follow is a silent no-op. Either way the client ends
// up back on the author's profile.
func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	author, err := s.us.ByUsername(mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user := auth.GetUser(r.Context())

	follow := &domain.Follow{
		UserID:   user.ID,
		AuthorID: author.ID,
	}
	if err := s.fs.Create(follow); err != nil && errs.ErrorCode(err) != errs.EINVALID {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, "/profile/"+author.Username+"/", http.StatusFound)
}

// handleUnfollow handles the route "GET /profile/{username}/unfollow/".
// It deletes the matching follow edge if one exists, a no-op otherwise,
// then redirects back to the author's profile.
func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	author, err := s.us.ByUsername(mux.Vars(r)["username"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user := auth.GetUser(r.Context())

	follow := &domain.Follow{
		UserID:   user.ID,
		AuthorID: author.ID,
	}
	if err := s.fs.Delete(follow); err != nil && errs.ErrorCode(err) != errs.EINVALID {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, "/profile/"+author.Username+"/", http.StatusFound)
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"yatube/auth"
	"yatube/domain"
	"yatube/errs"
)

func (s *Server) registerGroupRoutes(r *mux.Router) {
	r.HandleFunc("/group/{slug}/", s.handleGroup).Methods("GET")
}

type groupData struct {
	User  *domain.User
	Group *domain.Group
	Page  *domain.Page
}

// handleGroup handles the route "GET /group/{slug}/".
// It renders the group's description and one page of its posts, newest first.
func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.gs.BySlug(mux.Vars(r)["slug"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	page, err := s.ps.ByGroup(group.ID, pageNumber(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "group.html", groupData{
		User:  auth.GetUser(r.Context()),
		Group: group,
		Page:  page,
	})
}

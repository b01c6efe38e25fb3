package http

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"yatube/auth"
	"yatube/domain"
	"yatube/errs"
)

func (s *Server) registerPostRoutes(r *mux.Router) {
	r.HandleFunc("/", s.cachePage(IndexCacheTTL, s.handleIndex)).Methods("GET")
	r.HandleFunc("/create/", s.requireAuth(s.handleCreatePost)).Methods("GET", "POST")
	r.HandleFunc("/posts/{id:[0-9]+}/", s.handlePostDetail).Methods("GET")
	r.HandleFunc("/posts/{id:[0-9]+}/edit/", s.requireAuth(s.handleEditPost)).Methods("GET", "POST")
	r.HandleFunc("/posts/{id:[0-9]+}/comment/", s.requireAuth(s.handleAddComment)).Methods("POST")
	r.HandleFunc("/follow/", s.requireAuth(s.handleFollowIndex)).Methods("GET")
}

type indexData struct {
	User *domain.User
	Page *domain.Page
}

// handleIndex handles the route "GET /".
// It renders one page of all posts, newest first. The response runs
// through the page cache, see registerPostRoutes.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.ps.All(pageNumber(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "index.html", indexData{
		User: auth.GetUser(r.Context()),
		Page: page,
	})
}

type postDetailData struct {
	User       *domain.User
	Post       *domain.Post
	PostsCount int
	Comments   []domain.Comment
	CanEdit    bool
	CSRFField  template.HTML
}

// handlePostDetail handles the route "GET /posts/{id}/".
// It renders a single post with the author's total post count, all of the
// post's comments newest first, and an empty comment form. Anonymous
// visitors may view, they just don't get the form.
func (s *Server) handlePostDetail(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	postsCount, err := s.ps.CountByAuthor(post.AuthorID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	comments, err := s.cs.ByPost(post.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user := auth.GetUser(r.Context())
	s.render(w, r, "post_detail.html", postDetailData{
		User:       user,
		Post:       post,
		PostsCount: postsCount,
		Comments:   comments,
		CanEdit:    user != nil && user.ID == post.AuthorID,
		CSRFField:  csrf.TemplateField(r),
	})
}

type postFormData struct {
	User      *domain.User
	IsEdit    bool
	Post      *domain.Post
	Groups    []domain.Group
	Error     string
	CSRFField template.HTML
}

// handleCreatePost handles the route "GET/POST /create/".
// GET renders the empty creation form. POST validates the submitted fields,
// persists a new Post owned by the requesting user and redirects to their
// profile. On validation failure the form is redisplayed with the error and
// nothing is persisted.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	if r.Method == http.MethodGet {
		s.renderPostForm(w, r, &domain.Post{}, false, "")
		return
	}

	post := &domain.Post{
		AuthorID: user.ID,
	}
	if err := s.parsePostForm(w, r, post); err != nil {
		s.formError(w, r, post, false, err)
		return
	}

	// Upload the image (if any) first, so the post never exists without
	// its image URL. A failed create cleans the upload up again.
	imageURL, err := s.uploadFormImage(r)
	if err != nil {
		s.formError(w, r, post, false, err)
		return
	}
	post.ImageURL = imageURL

	if err := s.ps.Create(post); err != nil {
		if imageURL != "" {
			if derr := s.is.Delete(r.Context(), imageURL); derr != nil {
				errs.LogError(r, derr)
			}
		}
		s.formError(w, r, post, false, err)
		return
	}

	http.Redirect(w, r, "/profile/"+user.Username+"/", http.StatusFound)
}

// handleEditPost handles the route "GET/POST /posts/{id}/edit/".
// Only the post's author may edit. Anybody else is silently redirected to
// the post's detail page, no error surfaced. Text, group and image may
// change, the author is immutable.
func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	detailURL := "/posts/" + strconv.Itoa(post.ID) + "/"

	user := auth.GetUser(r.Context())
	if post.AuthorID != user.ID {
		http.Redirect(w, r, detailURL, http.StatusFound)
		return
	}

	if r.Method == http.MethodGet {
		s.renderPostForm(w, r, post, true, "")
		return
	}

	oldImageURL := post.ImageURL
	if err := s.parsePostForm(w, r, post); err != nil {
		s.formError(w, r, post, true, err)
		return
	}

	imageURL, err := s.uploadFormImage(r)
	if err != nil {
		s.formError(w, r, post, true, err)
		return
	}
	if imageURL != "" {
		post.ImageURL = imageURL
	}

	if err := s.ps.Update(post); err != nil {
		if imageURL != "" {
			if derr := s.is.Delete(r.Context(), imageURL); derr != nil {
				errs.LogError(r, derr)
			}
			// The replacement is gone again, the form keeps the stored image.
			post.ImageURL = oldImageURL
		}
		s.formError(w, r, post, true, err)
		return
	}

	// The replaced image is orphaned now, drop it from the object store.
	if imageURL != "" && oldImageURL != "" {
		if derr := s.is.Delete(r.Context(), oldImageURL); derr != nil {
			errs.LogError(r, derr)
		}
	}

	http.Redirect(w, r, detailURL, http.StatusFound)
}

// handleAddComment handles the route "POST /posts/{id}/comment/".
// A valid comment is persisted and the client redirected to the post's
// detail page. An invalid comment is silently dropped, the redirect happens
// either way. Commenting on a missing post is a 404.
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	user := auth.GetUser(r.Context())

	comment := &domain.Comment{
		PostID:   id,
		AuthorID: user.ID,
		Text:     r.PostFormValue("text"),
	}
	if err := s.cs.Create(comment); err != nil {
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			// Dropped on the floor, the redirect below proceeds as if
			// the comment had been saved.
		case errs.ENOTFOUND:
			errs.ReturnError(w, r, err)
			return
		default:
			errs.ReturnError(w, r, err)
			return
		}
	}

	http.Redirect(w, r, "/posts/"+strconv.Itoa(id)+"/", http.StatusFound)
}

type followIndexData struct {
	User *domain.User
	Page *domain.Page
}

// handleFollowIndex handles the route "GET /follow/".
// It renders one page of posts by every author the requesting user follows.
// Following nobody yields an empty page, not an error.
func (s *Server) handleFollowIndex(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	page, err := s.ps.ByFollowed(user.ID, pageNumber(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "follow.html", followIndexData{
		User: user,
		Page: page,
	})
}

// maxPostFormSize caps the whole post form body. The image alone may take up
// to domain.MaxUploadSize, the extra megabyte leaves room for the text fields
// and the multipart framing.
const maxPostFormSize = domain.MaxUploadSize + 1<<20

// parsePostForm reads the text and group fields of the post form into the
// given Post. Image handling lives in uploadFormImage. Oversized bodies are
// cut off while still streaming in, they never reach the object store.
func (s *Server) parsePostForm(w http.ResponseWriter, r *http.Request, post *domain.Post) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxPostFormSize)
	if err := r.ParseMultipartForm(domain.MaxUploadSize); err != nil && err != http.ErrNotMultipart {
		return errs.Errorf(errs.EINVALID, "Invalid form data.")
	}
	post.Text = r.PostFormValue("text")
	post.GroupID = 0
	post.Group = nil
	if raw := r.PostFormValue("group"); raw != "" {
		groupID, err := strconv.Atoi(raw)
		if err != nil {
			return errs.Errorf(errs.EINVALID, "Invalid group selection.")
		}
		post.GroupID = groupID
	}
	return nil
}

// uploadFormImage stores the optional image field of the post form in the
// object store and returns its URL. No file submitted means no URL and no error.
func (s *Server) uploadFormImage(r *http.Request) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", errs.Errorf(errs.EINVALID, "Invalid image upload.")
	}
	defer file.Close()
	return s.is.Upload(r.Context(), &domain.Image{
		File:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
}

// renderPostForm renders the shared create/edit form.
func (s *Server) renderPostForm(w http.ResponseWriter, r *http.Request, post *domain.Post, isEdit bool, formErr string) {
	groups, err := s.gs.All()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.render(w, r, "post_form.html", postFormData{
		User:      auth.GetUser(r.Context()),
		IsEdit:    isEdit,
		Post:      post,
		Groups:    groups,
		Error:     formErr,
		CSRFField: csrf.TemplateField(r),
	})
}

// formError redisplays the post form with the failed validation's message.
// Anything that isn't a validation error is an internal failure instead.
func (s *Server) formError(w http.ResponseWriter, r *http.Request, post *domain.Post, isEdit bool, err error) {
	switch errs.ErrorCode(err) {
	case errs.EINVALID, errs.ECONFLICT:
		s.renderPostForm(w, r, post, isEdit, errs.ErrorMessage(err))
	default:
		errs.ReturnError(w, r, err)
	}
}

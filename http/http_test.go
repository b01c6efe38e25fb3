package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"yatube/cache"
	"yatube/domain"
	"yatube/errs"
)

// The handler tests drive the Server through httptest with in-memory fakes
// behind the domain service interfaces. The fakes mirror the crud layer's
// validation results (EINVALID, ENOTFOUND, ECONFLICT) so the handlers'
// error branching is exercised for real.

type fixture struct {
	server    *Server
	users     *fakeUserService
	groups    *fakeGroupService
	posts     *fakePostService
	comments  *fakeCommentService
	follows   *fakeFollowService
	images    *fakeImageService
	pageCache *cache.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := &fakeUserService{}
	follows := &fakeFollowService{}
	groups := &fakeGroupService{}
	posts := &fakePostService{users: users, follows: follows}
	comments := &fakeCommentService{users: users, posts: posts}
	images := &fakeImageService{}
	pageCache := cache.NewMemoryStore()
	server := NewServer(false, "", users, groups, posts, comments, follows, images, pageCache)
	return &fixture{
		server:    server,
		users:     users,
		groups:    groups,
		posts:     posts,
		comments:  comments,
		follows:   follows,
		images:    images,
		pageCache: pageCache,
	}
}

// addUser seeds a user whose remember token is derived from the username,
// so requests can authenticate by cookie without going through login.
func (fx *fixture) addUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		Remember: "tok-" + username,
	}
	require.NoError(t, fx.users.Create(user))
	return user
}

func (fx *fixture) addPost(t *testing.T, author *domain.User, text string) *domain.Post {
	t.Helper()
	post := &domain.Post{Text: text, AuthorID: author.ID}
	require.NoError(t, fx.posts.Create(post))
	return post
}

func (fx *fixture) get(path string, user *domain.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if user != nil {
		req.AddCookie(&http.Cookie{Name: "remember_token", Value: user.Remember})
	}
	rec := httptest.NewRecorder()
	fx.server.Router().ServeHTTP(rec, req)
	return rec
}

func (fx *fixture) postForm(path string, form url.Values, user *domain.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if user != nil {
		req.AddCookie(&http.Cookie{Name: "remember_token", Value: user.Remember})
	}
	rec := httptest.NewRecorder()
	fx.server.Router().ServeHTTP(rec, req)
	return rec
}

func follow(userID, authorID int) *domain.Follow {
	return &domain.Follow{UserID: userID, AuthorID: authorID}
}

// ---- user service fake ----

type fakeUserService struct {
	users  []*domain.User
	nextID int
}

var _ domain.UserService = &fakeUserService{}

func (f *fakeUserService) ByID(id int) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
}

func (f *fakeUserService) ByUsername(username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
}

func (f *fakeUserService) ByRemember(token string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Remember == token {
			return u, nil
		}
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
}

func (f *fakeUserService) Authenticate(username, password string) (*domain.User, error) {
	user, err := f.ByUsername(username)
	if err != nil {
		return nil, errs.Errorf(errs.EINVALID, "The username does not exist in our database.")
	}
	if user.PasswordHash != password {
		return nil, errs.Errorf(errs.EINVALID, "The password is incorrect.")
	}
	return user, nil
}

func (f *fakeUserService) Create(user *domain.User) error {
	if strings.TrimSpace(user.Username) == "" {
		return errs.Errorf(errs.EINVALID, "Username is required.")
	}
	if user.Password == "" {
		return errs.Errorf(errs.EINVALID, "Password is required.")
	}
	if _, err := f.ByUsername(user.Username); err == nil {
		return errs.Errorf(errs.ECONFLICT, "Username is already taken.")
	}
	f.nextID++
	user.ID = f.nextID
	// The fake keeps the password in plain text, good enough for Authenticate.
	user.PasswordHash = user.Password
	user.Password = ""
	if user.Remember == "" {
		user.Remember = fmt.Sprintf("remember-%d", user.ID)
	}
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserService) Update(user *domain.User) error {
	return nil
}

// ---- group service fake ----

type fakeGroupService struct {
	groups []domain.Group
	nextID int
}

var _ domain.GroupService = &fakeGroupService{}

func (f *fakeGroupService) BySlug(slug string) (*domain.Group, error) {
	for _, g := range f.groups {
		if g.Slug == slug {
			group := g
			return &group, nil
		}
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "The group does not exist.")
}

func (f *fakeGroupService) All() ([]domain.Group, error) {
	return append([]domain.Group(nil), f.groups...), nil
}

func (f *fakeGroupService) Create(group *domain.Group) error {
	f.nextID++
	group.ID = f.nextID
	f.groups = append(f.groups, *group)
	return nil
}

// ---- post service fake ----

type fakePostService struct {
	posts   []domain.Post
	nextID  int
	users   *fakeUserService
	follows *fakeFollowService
}

var _ domain.PostService = &fakePostService{}

func (f *fakePostService) ByID(id int) (*domain.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			post := p
			return &post, nil
		}
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
}

func (f *fakePostService) All(page int) (*domain.Page, error) {
	return f.page(func(p domain.Post) bool { return true }, page), nil
}

func (f *fakePostService) ByGroup(groupID int, page int) (*domain.Page, error) {
	return f.page(func(p domain.Post) bool { return p.GroupID == groupID }, page), nil
}

func (f *fakePostService) ByAuthor(authorID int, page int) (*domain.Page, error) {
	return f.page(func(p domain.Post) bool { return p.AuthorID == authorID }, page), nil
}

func (f *fakePostService) ByFollowed(userID int, page int) (*domain.Page, error) {
	followed := map[int]bool{}
	for _, edge := range f.follows.edges {
		if edge.UserID == userID {
			followed[edge.AuthorID] = true
		}
	}
	return f.page(func(p domain.Post) bool { return followed[p.AuthorID] }, page), nil
}

func (f *fakePostService) CountByAuthor(authorID int) (int, error) {
	count := 0
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (f *fakePostService) Create(post *domain.Post) error {
	if strings.TrimSpace(post.Text) == "" {
		return errs.Errorf(errs.EINVALID, "Post text must not be empty.")
	}
	author, err := f.users.ByID(post.AuthorID)
	if err != nil {
		return err
	}
	f.nextID++
	post.ID = f.nextID
	post.Author = *author
	f.posts = append(f.posts, *post)
	return nil
}

func (f *fakePostService) Update(post *domain.Post) error {
	if strings.TrimSpace(post.Text) == "" {
		return errs.Errorf(errs.EINVALID, "Post text must not be empty.")
	}
	for i := range f.posts {
		if f.posts[i].ID == post.ID {
			f.posts[i].Text = post.Text
			f.posts[i].GroupID = post.GroupID
			f.posts[i].ImageURL = post.ImageURL
			return nil
		}
	}
	return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
}

// page mirrors the crud layer's pagination: newest first, fixed size,
// clamped page numbers.
func (f *fakePostService) page(match func(domain.Post) bool, number int) *domain.Page {
	var filtered []domain.Post
	for _, p := range f.posts {
		if match(p) {
			filtered = append(filtered, p)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID > filtered[j].ID })

	number, totalPages := domain.ClampPage(number, len(filtered))
	start := (number - 1) * domain.PostsPerPage
	end := start + domain.PostsPerPage
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	return &domain.Page{
		Posts:      filtered[start:end],
		Number:     number,
		TotalPages: totalPages,
		TotalCount: len(filtered),
	}
}

// ---- comment service fake ----

type fakeCommentService struct {
	comments []domain.Comment
	nextID   int
	users    *fakeUserService
	posts    *fakePostService
}

var _ domain.CommentService = &fakeCommentService{}

func (f *fakeCommentService) ByPost(postID int) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeCommentService) Create(comment *domain.Comment) error {
	if _, err := f.posts.ByID(comment.PostID); err != nil {
		return errs.Errorf(errs.ENOTFOUND, "The commented post does not exist.")
	}
	if strings.TrimSpace(comment.Text) == "" {
		return errs.Errorf(errs.EINVALID, "Comment text must not be empty.")
	}
	author, err := f.users.ByID(comment.AuthorID)
	if err != nil {
		return err
	}
	f.nextID++
	comment.ID = f.nextID
	comment.Author = *author
	f.comments = append(f.comments, *comment)
	return nil
}

// ---- follow service fake ----

type fakeFollowService struct {
	edges  []domain.Follow
	nextID int
}

var _ domain.FollowService = &fakeFollowService{}

func (f *fakeFollowService) Create(follow *domain.Follow) error {
	if follow.UserID == follow.AuthorID {
		return errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
	}
	if ok, _ := f.Exists(follow.UserID, follow.AuthorID); ok {
		return errs.Errorf(errs.EINVALID, "You already follow this user.")
	}
	f.nextID++
	follow.ID = f.nextID
	f.edges = append(f.edges, *follow)
	return nil
}

func (f *fakeFollowService) Delete(follow *domain.Follow) error {
	for i, edge := range f.edges {
		if edge.UserID == follow.UserID && edge.AuthorID == follow.AuthorID {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return nil
		}
	}
	return errs.Errorf(errs.EINVALID, "You don't follow this user.")
}

func (f *fakeFollowService) Exists(userID, authorID int) (bool, error) {
	for _, edge := range f.edges {
		if edge.UserID == userID && edge.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

// ---- image service fake ----

type fakeImageService struct {
	uploads []string
	deletes []string
}

var _ domain.ImageService = &fakeImageService{}

func (f *fakeImageService) Upload(_ context.Context, img *domain.Image) (string, error) {
	url := "http://images.test/posts/" + img.Filename
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeImageService) Delete(_ context.Context, url string) error {
	f.deletes = append(f.deletes, url)
	return nil
}

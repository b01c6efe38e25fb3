package http

import (
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"yatube/auth"
	"yatube/cache"
	"yatube/domain"
)

// IndexCacheTTL is how long the rendered index page stays cached.
// A fresh post only shows up on the index once the TTL lapses or the
// cache is cleared explicitly.
const IndexCacheTTL = 20 * time.Second

// Server provides the http functionality of this app, namely routing,
// request handling, and middleware. It performs authentication and
// authorization before handing things over to one of the crud services.
type Server struct {
	router    *mux.Router
	us        domain.UserService
	gs        domain.GroupService
	ps        domain.PostService
	cs        domain.CommentService
	fs        domain.FollowService
	is        domain.ImageService
	pageCache cache.Store
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the services passed in.
// CSRF protection is only attached when a csrfAuthKey is configured,
// the handler tests run without one.
func NewServer(
	isProd bool,
	csrfAuthKey string,
	us domain.UserService,
	gs domain.GroupService,
	ps domain.PostService,
	cs domain.CommentService,
	fs domain.FollowService,
	is domain.ImageService,
	pageCache cache.Store,
) *Server {
	s := &Server{
		router:    mux.NewRouter().StrictSlash(true),
		us:        us,
		gs:        gs,
		ps:        ps,
		cs:        cs,
		fs:        fs,
		is:        is,
		pageCache: pageCache,
	}

	s.registerAccountRoutes(s.router)
	s.registerPostRoutes(s.router)
	s.registerGroupRoutes(s.router)
	s.registerProfileRoutes(s.router)

	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)

	if csrfAuthKey != "" {
		csrfMw := csrf.Protect([]byte(csrfAuthKey), csrf.Secure(isProd), csrf.Path("/"))
		s.router.Use(csrfMw)
	}
	s.router.Use(s.checkUser)
	return s
}

// Router exposes the underlying handler, mainly so tests can drive
// the server through httptest without opening a socket.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), s.router))
}

// The checkUser middleware looks up the requesting user by their remember
// token cookie and stores them in the request context. Requests without a
// valid cookie stay anonymous, every handler branches on that through
// auth.GetUser.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("remember_token")
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByRemember(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(auth.SetUser(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth redirects anonymous requests to the login page, with a
// next parameter pointing back at the originally requested path.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			http.Redirect(w, r, "/auth/login/?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// cachePage wraps a handler in the full-response page cache. The cache key
// is the request path plus query, so every page of a listing caches
// separately. Only 200 responses get cached.
func (s *Server) cachePage(ttl time.Duration, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		if body, ok := s.pageCache.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(body)
			return
		}
		rec := newCachingWriter(w)
		next(rec, r)
		if rec.status == http.StatusOK {
			s.pageCache.Set(r.Context(), key, rec.body(), ttl)
		}
	}
}

// cachingWriter tees the response body into a buffer while writing it
// through to the client, so the rendered page can be cached afterwards.
type cachingWriter struct {
	http.ResponseWriter
	buf    strings.Builder
	status int
}

func newCachingWriter(w http.ResponseWriter) *cachingWriter {
	return &cachingWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
	}
}

func (cw *cachingWriter) WriteHeader(status int) {
	cw.status = status
	cw.ResponseWriter.WriteHeader(status)
}

func (cw *cachingWriter) Write(p []byte) (int, error) {
	cw.buf.Write(p)
	return cw.ResponseWriter.Write(p)
}

func (cw *cachingWriter) body() []byte {
	return []byte(cw.buf.String())
}

// pageNumber parses the ?page query parameter. Anything that isn't a
// number counts as the first page, range clamping happens in the
// crud layer.
func pageNumber(r *http.Request) int {
	number, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return number
}

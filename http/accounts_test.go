package http

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	fx := newFixture(t)

	rec := fx.postForm("/auth/signup/", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"password123"},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// The new user is persisted and logged in via cookie.
	user, err := fx.users.ByUsername("alice")
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "remember_token", cookies[0].Name)
	assert.Equal(t, user.Remember, cookies[0].Value)
}

func TestSignupTakenUsername(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "alice")

	rec := fx.postForm("/auth/signup/", url.Values{
		"username": {"alice"},
		"email":    {"other@example.com"},
		"password": {"password123"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, "conflict redisplays the form")
	assert.Contains(t, rec.Body.String(), "Username is already taken.")
}

func TestLogin(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "alice")

	// Wrong password redisplays the form with the error.
	rec := fx.postForm("/auth/login/", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The password is incorrect.")

	// A successful login honors the next parameter.
	rec = fx.postForm("/auth/login/", url.Values{
		"username": {"alice"},
		"password": {"password123"},
		"next":     {"/create/"},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/create/", rec.Header().Get("Location"))
	require.NotEmpty(t, rec.Result().Cookies())
	assert.Equal(t, "remember_token", rec.Result().Cookies()[0].Name)
}

func TestLoginNextStaysOnSite(t *testing.T) {
	fx := newFixture(t)
	fx.addUser(t, "alice")

	rec := fx.postForm("/auth/login/", url.Values{
		"username": {"alice"},
		"password": {"password123"},
		"next":     {"//evil.example/phish"},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLoginPageCarriesNext(t *testing.T) {
	fx := newFixture(t)

	rec := fx.get("/auth/login/?next=%2Ffollow%2F", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="next" value="/follow/"`)
}

func TestLogout(t *testing.T) {
	fx := newFixture(t)
	alice := fx.addUser(t, "alice")

	rec := fx.postForm("/auth/logout/", url.Values{}, alice)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "remember_token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}

package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, ENOTFOUND, ErrorCode(Errorf(ENOTFOUND, "gone")))
	assert.Equal(t, EINTERNAL, ErrorCode(errors.New("driver blew up")))

	wrapped := fmt.Errorf("handler: %w", Errorf(EINVALID, "bad input"))
	assert.Equal(t, EINVALID, ErrorCode(wrapped))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "gone", ErrorMessage(Errorf(ENOTFOUND, "gone")))
	assert.Equal(t, "An internal error has occurred.", ErrorMessage(errors.New("driver blew up")))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusCode(ENOTFOUND))
	assert.Equal(t, http.StatusBadRequest, StatusCode(EINVALID))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(EUNAUTHORIZED))
	assert.Equal(t, http.StatusConflict, StatusCode(ECONFLICT))
	assert.Equal(t, http.StatusInternalServerError, StatusCode("no-such-code"))
}

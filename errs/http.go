package errs

import (
	"fmt"
	"html"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var codes = map[string]int{
	ECONFLICT:     http.StatusConflict,
	EINVALID:      http.StatusBadRequest,
	ENOTFOUND:     http.StatusNotFound,
	EUNAUTHORIZED: http.StatusUnauthorized,
	EINTERNAL:     http.StatusInternalServerError,
}

// StatusCode maps an application error code onto an HTTP status code.
func StatusCode(code string) int {
	if status, ok := codes[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ReturnError writes the error to the response as a minimal HTML page.
// Internal errors are logged and masked, everything else surfaces its message.
func ReturnError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := ErrorCode(err), ErrorMessage(err)
	if code == EINTERNAL {
		LogError(r, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(StatusCode(code))
	fmt.Fprintf(w, "<html><body><h1>%d</h1><p>%s</p></body></html>",
		StatusCode(code), html.EscapeString(message))
}

// LogError logs an error together with the request it occurred on.
func LogError(r *http.Request, err error) {
	log.WithFields(log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error(err)
}

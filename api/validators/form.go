package validators

import (
	"mime"
	"net/http"
	"strings"

	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
)

// IsFormRequest reports whether the body is urlencoded or multipart form data.
func IsFormRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// rawFormFields are returned exactly as sent.
var rawFormFields = map[string]bool{"password": true}

// FormValues reads the named fields from a form body. Values are trimmed,
// except for the fields in rawFormFields.
func FormValues(r *http.Request, keys ...string) (map[string]string, error) {
	if err := r.ParseForm(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form body")
	}
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		value := r.PostFormValue(key)
		if !rawFormFields[key] {
			value = strings.TrimSpace(value)
		}
		out[key] = value
	}
	return out, nil
}

// BearerToken extracts the token from an Authorization header, or "" when absent.
func BearerToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

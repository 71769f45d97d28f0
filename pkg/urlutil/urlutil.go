package urlutil

import "net/url"

// IsValidURL reports whether value is a syntactically valid absolute
// http or https URL. It never panics and treats any parse failure as
// an invalid URL.
func IsValidURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

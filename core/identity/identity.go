package identity

// Profile is the normalized view of an authenticated account, assembled
// from the provider's ID token and userinfo endpoint.
type Profile struct {
	Sub           string   `json:"sub" yaml:"sub"`
	Email         string   `json:"email" yaml:"email"`
	EmailVerified bool     `json:"emailVerified" yaml:"emailVerified"`
	Name          string   `json:"name,omitempty" yaml:"name,omitempty"`
	Picture       string   `json:"picture,omitempty" yaml:"picture,omitempty"`
	Groups        []string `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// issuerCriticalClaims always come from the ID token when both sources
// carry them.
var issuerCriticalClaims = map[string]bool{
	"sub":            true,
	"iss":            true,
	"aud":            true,
	"email":          true,
	"email_verified": true,
}

// MergeClaims combines ID-token claims with userinfo claims. The userinfo
// response fills gaps, but the ID token wins on collision for
// issuer-critical claims.
func MergeClaims(idToken, userInfo map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(idToken)+len(userInfo))
	for k, v := range userInfo {
		merged[k] = v
	}
	for k, v := range idToken {
		if _, exists := merged[k]; !exists || issuerCriticalClaims[k] {
			merged[k] = v
		}
	}
	return merged
}

func profileFromClaims(claims map[string]interface{}) *Profile {
	return &Profile{
		Sub:           stringClaim(claims, "sub"),
		Email:         stringClaim(claims, "email"),
		EmailVerified: boolClaim(claims, "email_verified"),
		Name:          stringClaim(claims, "name"),
		Picture:       stringClaim(claims, "picture"),
		Groups:        stringSliceClaim(claims, "groups"),
	}
}

func stringClaim(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

func boolClaim(claims map[string]interface{}, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		// some providers serialize booleans as strings
		return v == "true"
	}
	return false
}

func stringSliceClaim(claims map[string]interface{}, key string) []string {
	raw, ok := claims[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

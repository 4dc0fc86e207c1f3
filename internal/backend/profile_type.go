package backend

import (
	"net/url"
	"strings"

	"scholar-lens/internal/domain"
)

// DetectProfileType guesses the profile source from the URL host.
func DetectProfileType(raw string) domain.ProfileType {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return domain.ProfileTypeOther
	}
	host := strings.ToLower(u.Hostname())

	switch {
	case strings.HasPrefix(host, "scholar.google."):
		return domain.ProfileTypeGoogleScholar
	case host == "orcid.org" || strings.HasSuffix(host, ".orcid.org"):
		return domain.ProfileTypeORCID
	case host == "semanticscholar.org" || strings.HasSuffix(host, ".semanticscholar.org"):
		return domain.ProfileTypeSemanticScholar
	default:
		return domain.ProfileTypeOther
	}
}

// ParseProfileType validates a client supplied profile type. An empty value
// means "detect from the URL".
func ParseProfileType(s string, profileURL string) (domain.ProfileType, bool) {
	switch pt := domain.ProfileType(s); pt {
	case "":
		return DetectProfileType(profileURL), true
	case domain.ProfileTypeGoogleScholar, domain.ProfileTypeORCID,
		domain.ProfileTypeSemanticScholar, domain.ProfileTypeOther:
		return pt, true
	default:
		return "", false
	}
}

package github

import (
	"net/http"

	"golang.org/x/oauth2"
)

const (
	// MediaType is sent as Accept on every API request.
	MediaType = "application/vnd.github+json"
	// APIVersion pins the REST API version.
	APIVersion = "2022-11-28"

	headerAccept     = "Accept"
	headerAPIVersion = "X-GitHub-Api-Version"
)

// apiHeaderTransport stamps the GitHub media type and API version on every
// outgoing request.
type apiHeaderTransport struct {
	base http.RoundTripper
}

func (t *apiHeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set(headerAccept, MediaType)
	r.Header.Set(headerAPIVersion, APIVersion)
	return t.base.RoundTrip(r)
}

// newHTTPClient chains the header transport under an oauth2 bearer
// transport. Without a token requests go out unauthenticated.
func newHTTPClient(token string, base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	var rt http.RoundTripper = &apiHeaderTransport{base: base}

	if token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})),
			Base:   rt,
		}
	}
	return &http.Client{Transport: rt}
}

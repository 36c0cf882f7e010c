package regex

import "regexp"

var (
	// Version patterns
	SemanticVersion = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)$`)

	// Git and Repo patterns
	SSHRepo        = regexp.MustCompile(`git@([^:]+):([^/]+)/(.+)\.git$`)
	HTTPSRepo      = regexp.MustCompile(`https://([^/]+)/([^/]+)/(.+?)(?:\.git)?$`)
	RepositoryName = regexp.MustCompile(`^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)$`)
)

// FullMatch compiles pattern so that it only matches when it consumes the
// whole input.
func FullMatch(pattern string) (*regexp.Regexp, error) {
	return anchored(pattern, `^(?:`, `)$`)
}

// PrefixMatch compiles pattern so that it must match at the start of the
// input but may leave trailing characters unmatched.
func PrefixMatch(pattern string) (*regexp.Regexp, error) {
	return anchored(pattern, `^(?:`, `)`)
}

// anchored compiles pattern on its own first, so unbalanced groups such as
// "a)|(.*" cannot escape the anchoring group.
func anchored(pattern, prefix, suffix string) (*regexp.Regexp, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, err
	}
	return regexp.Compile(prefix + pattern + suffix)
}

package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeVersion       ErrorType = "VERSION"
	TypeVCS           ErrorType = "VCS"
	TypeGit           ErrorType = "GIT"
	TypeNotFound      ErrorType = "NOT_FOUND"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if stderr, ok := e.Context["stderr"].(string); ok && stderr != "" {
			msg += fmt.Sprintf(" - %s", stderr)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same kind of AppError, so errors derived
// through WithError/WithContext still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Version errors
var (
	ErrInvalidVersion = NewAppError(TypeVersion, "Unable to parse version", nil).
				WithSuggestion("Use semantic versioning format: v1.0.0, v2.1.3, etc.")

	ErrInvalidBump = NewAppError(TypeVersion, "Unknown version bump", nil).
			WithSuggestion("Use one of: major, minor, patch")
)

// Git errors
var (
	ErrDescribeTag = NewAppError(TypeGit, "No matching version tag reachable from branch", nil).
			WithSuggestion("List available tags: git tag -l\nIn CI, fetch tags first: git fetch --tags")

	ErrRevParse = NewAppError(TypeGit, "Failed to resolve ref to a commit", nil).
			WithSuggestion("Check the branch exists: git branch -a")

	ErrGetRepoURL = NewAppError(TypeGit, "Failed to get repository URL", nil).
			WithSuggestion("Add a remote: git remote add origin <url>")

	ErrExtractRepoInfo = NewAppError(TypeGit, "Failed to extract repository info", nil).
				WithSuggestion("Pass the repository explicitly: --repo owner/name")
)

// Configuration errors
var (
	ErrTokenMissing = NewAppError(TypeConfiguration, "GitHub token is missing", nil).
			WithSuggestion("Export GITHUB_TOKEN or set [github].token in the config file")

	ErrConfigLoad = NewAppError(TypeConfiguration, "Failed to load configuration", nil).
			WithSuggestion("Check the TOML syntax of the config file")

	ErrInvalidRepository = NewAppError(TypeConfiguration, "Repository must have the form owner/name", nil)

	ErrInvalidPattern = NewAppError(TypeConfiguration, "Invalid regular expression", nil)

	ErrVCSProviderNotSupported = NewAppError(TypeConfiguration, "VCS provider is not supported", nil).
					WithSuggestion("Only GitHub remotes are supported; set [github].api_url for GitHub Enterprise hosts")

	ErrInvalidPullRequestState = NewAppError(TypeConfiguration, "Unknown pull request state", nil).
					WithSuggestion("Use one of: open, closed, all")

	ErrUnknownConfigKey = NewAppError(TypeConfiguration, "Unknown configuration key", nil).
				WithSuggestion("Run 'cicd-utils config show' to list the available keys")

	ErrConfigSave = NewAppError(TypeConfiguration, "Failed to save configuration", nil)

	ErrUnsupportedLanguage = NewAppError(TypeConfiguration, "Language is not supported", nil).
				WithSuggestion("Use one of: en, es")
)

// VCS errors
var (
	ErrGitHubRequest = NewAppError(TypeVCS, "GitHub API request failed", nil)

	ErrRepositoryNotFound = NewAppError(TypeVCS, "repository not found", nil).
				WithSuggestion("Check repository name and access permissions")

	ErrTagRefRejected = NewAppError(TypeVCS, "GitHub rejected the tag reference", nil).
				WithSuggestion("The tag may already exist or the commit may be unknown to the remote")

	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrGitHubInsufficientPerms = NewAppError(TypeVCS, "GitHub token has insufficient permissions", nil).
					WithSuggestion("Token needs 'contents: write' and 'pull-requests: write' permissions")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes or use a token with a higher rate limit")
)

// Resolution errors
var (
	ErrNoPullRequestFound = NewAppError(TypeNotFound, "No pull requests found", nil)
)

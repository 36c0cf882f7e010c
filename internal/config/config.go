package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/models"
	"github.com/Tomas-vilte/cicd-utils/internal/regex"
)

const (
	// DefaultTagPattern is the git describe glob used to find version tags.
	DefaultTagPattern = "v[0-9]*.[0-9]*.[0-9]*"

	DefaultLanguage             = "en"
	DefaultPullRequestState     = "open"
	DefaultReleaseBranchPattern = "release/.*"
	DefaultMainBranchPattern    = "main|master"
	DefaultRemoteTagPattern     = "v"

	configDirName  = ".cicd-utils"
	configFileName = "config.toml"

	// TokenEnvVar overrides github.token when set.
	TokenEnvVar = "GITHUB_TOKEN"
)

type (
	Config struct {
		Language     string             `toml:"language"`
		GitHub       GitHubConfig       `toml:"github"`
		PullRequests PullRequestsConfig `toml:"pull_requests"`
		Tags         TagsConfig         `toml:"tags"`

		PathFile string `toml:"-"`
	}

	GitHubConfig struct {
		Token string `toml:"token,omitempty"`
		// APIURL points at a GitHub Enterprise server. Empty means api.github.com.
		APIURL string `toml:"api_url,omitempty"`
		// Repository is owner/name. Empty means it is derived from the origin remote.
		Repository string `toml:"repository,omitempty"`
	}

	PullRequestsConfig struct {
		State                string `toml:"state"`
		ReleaseBranchPattern string `toml:"release_branch_pattern"`
		MainBranchPattern    string `toml:"main_branch_pattern"`
	}

	TagsConfig struct {
		// Pattern is a git glob, used with git describe --match.
		Pattern string `toml:"pattern"`
		// RemotePattern is a regular expression matched at the start of remote tag names.
		RemotePattern string `toml:"remote_pattern"`
	}
)

// Provider returns the effective configuration once global flags are known.
type Provider func() (*Config, error)

// Default returns a configuration with every documented default applied.
func Default() *Config {
	return &Config{
		Language: DefaultLanguage,
		PullRequests: PullRequestsConfig{
			State:                DefaultPullRequestState,
			ReleaseBranchPattern: DefaultReleaseBranchPattern,
			MainBranchPattern:    DefaultMainBranchPattern,
		},
		Tags: TagsConfig{
			Pattern:       DefaultTagPattern,
			RemotePattern: DefaultRemoteTagPattern,
		},
	}
}

// DefaultPath returns $HOME/.cicd-utils/config.toml.
func DefaultPath(homeDir string) string {
	return filepath.Join(homeDir, configDirName, configFileName)
}

// LoadConfig reads the TOML file at path on top of the defaults. A missing
// file is not an error. GITHUB_TOKEN, when set, takes precedence over the
// file's token.
func LoadConfig(path string) (*Config, error) {
	config := Default()
	config.PathFile = path

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, domainErrors.ErrConfigLoad.WithError(err).WithContext("path", path)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, domainErrors.ErrConfigLoad.WithError(err).WithContext("path", path)
	}

	if token := os.Getenv(TokenEnvVar); token != "" {
		config.GitHub.Token = token
	}

	applyDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes the configuration as TOML. The token is never persisted
// when it came from the environment.
func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return err
	}

	if config.PathFile == "" {
		return domainErrors.ErrConfigSave.WithError(errors.New("config file path is not defined"))
	}

	toSave := *config
	if os.Getenv(TokenEnvVar) == config.GitHub.Token {
		toSave.GitHub.Token = ""
	}

	if err := os.MkdirAll(filepath.Dir(config.PathFile), 0755); err != nil {
		return domainErrors.ErrConfigSave.WithError(err).WithContext("path", config.PathFile)
	}

	f, err := os.OpenFile(config.PathFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return domainErrors.ErrConfigSave.WithError(err).WithContext("path", config.PathFile)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(toSave); err != nil {
		return domainErrors.ErrConfigSave.WithError(fmt.Errorf("error encoding config: %w", err)).WithContext("path", config.PathFile)
	}
	return nil
}

// SplitRepository splits owner/name.
func SplitRepository(repository string) (string, string, error) {
	m := regex.RepositoryName.FindStringSubmatch(repository)
	if m == nil {
		return "", "", domainErrors.ErrInvalidRepository.WithContext("repository", repository)
	}
	return m[1], m[2], nil
}

func applyDefaults(config *Config) {
	defaults := Default()
	if config.Language == "" {
		config.Language = defaults.Language
	}
	if config.PullRequests.State == "" {
		config.PullRequests.State = defaults.PullRequests.State
	}
	if config.PullRequests.ReleaseBranchPattern == "" {
		config.PullRequests.ReleaseBranchPattern = defaults.PullRequests.ReleaseBranchPattern
	}
	if config.PullRequests.MainBranchPattern == "" {
		config.PullRequests.MainBranchPattern = defaults.PullRequests.MainBranchPattern
	}
	if config.Tags.Pattern == "" {
		config.Tags.Pattern = defaults.Tags.Pattern
	}
	if config.Tags.RemotePattern == "" {
		config.Tags.RemotePattern = defaults.Tags.RemotePattern
	}
}

func validateConfig(config *Config) error {
	if _, err := models.ParsePullRequestState(config.PullRequests.State); err != nil {
		return err
	}

	// Patterns are checked with the anchoring they get at runtime.
	patterns := []struct {
		key     string
		pattern string
		compile func(string) (*regexp.Regexp, error)
	}{
		{"pull_requests.release_branch_pattern", config.PullRequests.ReleaseBranchPattern, regex.FullMatch},
		{"pull_requests.main_branch_pattern", config.PullRequests.MainBranchPattern, regex.FullMatch},
		{"tags.remote_pattern", config.Tags.RemotePattern, regex.PrefixMatch},
	}
	for _, p := range patterns {
		if _, err := p.compile(p.pattern); err != nil {
			return domainErrors.ErrInvalidPattern.WithError(err).WithContext("key", p.key)
		}
	}

	if config.GitHub.Repository != "" {
		if _, _, err := SplitRepository(config.GitHub.Repository); err != nil {
			return err
		}
	}
	return nil
}

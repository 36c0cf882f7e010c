package models

// Tag is a remote tag and the commit it points at.
type Tag struct {
	Name      string
	CommitSHA string
}

// TagResult is the outcome of tagging a release commit.
type TagResult struct {
	Tag       string `json:"tag"`
	CommitSHA string `json:"commit_sha"`
	Created   bool   `json:"created"`
}

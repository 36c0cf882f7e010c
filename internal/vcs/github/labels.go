package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v80/github"
)

type addLabelsRequest struct {
	Labels []string `json:"labels"`
}

// labelsService posts labels wrapped in an object. go-github's
// Issues.AddLabelsToIssue sends a bare array instead.
type labelsService struct {
	client *github.Client
}

func (s *labelsService) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) (*github.Response, error) {
	u := fmt.Sprintf("repos/%v/%v/issues/%d/labels", owner, repo, number)
	req, err := s.client.NewRequest(http.MethodPost, u, &addLabelsRequest{Labels: labels})
	if err != nil {
		return nil, err
	}

	var added []*github.Label
	return s.client.Do(ctx, req, &added)
}

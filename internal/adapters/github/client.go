// Package github implements ports.RepositoryLister using the GitHub API.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	gogh "github.com/google/go-github/v68/github"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
)

const perPage = 100

// Client wraps the GitHub API for repository discovery
type Client struct {
	gh *gogh.Client
}

var _ ports.RepositoryLister = (*Client)(nil)

// New creates a GitHub client authenticated with the given token
func New(token string) *Client {
	return &Client{
		gh: gogh.NewClient(nil).WithAuthToken(token),
	}
}

// NewWithBaseURL creates a client against a non-default API endpoint
func NewWithBaseURL(token, baseURL string) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing GitHub API URL: %w", err)
	}
	c := New(token)
	c.gh.BaseURL = u
	return c, nil
}

// ListRepositories returns every repository of org, or of the authenticated user when org is empty
func (c *Client) ListRepositories(ctx context.Context, org string) ([]domain.Repository, error) {
	var repos []domain.Repository
	page := 1
	for page != 0 {
		var (
			batch []*gogh.Repository
			resp  *gogh.Response
			err   error
		)
		opts := gogh.ListOptions{Page: page, PerPage: perPage}
		if org == "" {
			batch, resp, err = c.gh.Repositories.ListByAuthenticatedUser(ctx, &gogh.RepositoryListByAuthenticatedUserOptions{
				Sort:        "updated",
				ListOptions: opts,
			})
		} else {
			batch, resp, err = c.gh.Repositories.ListByOrg(ctx, org, &gogh.RepositoryListByOrgOptions{
				Sort:        "updated",
				ListOptions: opts,
			})
		}
		if err != nil {
			return nil, fmt.Errorf("listing repositories: %w", err)
		}

		for _, r := range batch {
			repos = append(repos, toRepository(r))
		}
		page = resp.NextPage
	}

	logging.Logger.Debug("Listed repositories", "org", org, "count", len(repos))
	return repos, nil
}

// ListOrganizations returns the organizations of the authenticated user
func (c *Client) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	var orgs []domain.Organization
	page := 1
	for page != 0 {
		batch, resp, err := c.gh.Organizations.List(ctx, "", &gogh.ListOptions{Page: page, PerPage: perPage})
		if err != nil {
			return nil, fmt.Errorf("listing organizations: %w", err)
		}
		for _, o := range batch {
			orgs = append(orgs, domain.Organization{
				ID:    o.GetID(),
				Login: o.GetLogin(),
				Name:  o.GetName(),
			})
		}
		page = resp.NextPage
	}
	return orgs, nil
}

// GetRepository fetches owner/name
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*domain.Repository, error) {
	r, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("getting repository: %w", err)
	}
	repo := toRepository(r)
	return &repo, nil
}

// SplitRepo splits "owner/repo" into its parts
func SplitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSuffix(fullName, ".git"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
		return "", "", fmt.Errorf("invalid repo format %q, expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}

func toRepository(r *gogh.Repository) domain.Repository {
	return domain.Repository{
		CloneURL: r.GetCloneURL(),
		FullName: r.GetFullName(),
		HTMLURL:  r.GetHTMLURL(),
		ID:       r.GetID(),
		Name:     r.GetName(),
		Private:  r.GetPrivate(),
	}
}

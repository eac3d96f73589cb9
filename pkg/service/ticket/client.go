package ticket

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/shurcooL/githubv4"
)

// Client opens GitHub issues for risks through the GraphQL API
type Client struct {
	gql   *githubv4.Client
	owner string
	repo  string

	mu     sync.Mutex
	repoID githubv4.ID
}

var _ interfaces.TicketService = &Client{}

// New creates a Client using GitHub App authentication.
// privateKey can be a PEM string or a file path to a PEM file.
func New(appID, installationID int64, privateKey, owner, repo string) (*Client, error) {
	var key []byte

	// #nosec G304 -- path comes from CLI flag, not user input
	if data, err := os.ReadFile(privateKey); err == nil {
		key = data
	} else {
		key = []byte(privateKey)
	}

	tr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	return newClient(githubv4.NewClient(&http.Client{Transport: tr}), owner, repo), nil
}

// NewWithEndpoint creates a Client talking to a GraphQL endpoint with the given HTTP client,
// e.g. GitHub Enterprise Server.
func NewWithEndpoint(endpoint string, httpClient *http.Client, owner, repo string) *Client {
	return newClient(githubv4.NewEnterpriseClient(endpoint, httpClient), owner, repo)
}

func newClient(gql *githubv4.Client, owner, repo string) *Client {
	return &Client{
		gql:   gql,
		owner: owner,
		repo:  repo,
	}
}

// IssueTitle is the title of the issue opened for a risk
func IssueTitle(req interfaces.TicketRequest) string {
	return fmt.Sprintf("Risk #%s: %s", req.RiskID, req.Title)
}

// IssueBody is the body of the issue opened for a risk
func IssueBody(req interfaces.TicketRequest) string {
	var b strings.Builder
	b.WriteString(req.Description)
	b.WriteString("\n\n---\n")
	fmt.Fprintf(&b, "Risk ID: `%s`\n", req.RiskID)
	return b.String()
}

// CreateTicket opens an issue and returns its key as owner/repo#number
func (c *Client) CreateTicket(ctx context.Context, req interfaces.TicketRequest) (*interfaces.Ticket, error) {
	repoID, err := c.repositoryID(ctx)
	if err != nil {
		return nil, err
	}

	var m createIssueMutation
	input := githubv4.CreateIssueInput{
		RepositoryID: repoID,
		Title:        githubv4.String(IssueTitle(req)),
		Body:         githubv4.NewString(githubv4.String(IssueBody(req))),
	}

	if err := c.gql.Mutate(ctx, &m, input, nil); err != nil {
		return nil, goerr.Wrap(err, "failed to create issue",
			goerr.V("owner", c.owner), goerr.V("repo", c.repo), goerr.V("risk_id", req.RiskID))
	}

	issue := m.CreateIssue.Issue
	return &interfaces.Ticket{
		ID:  fmt.Sprintf("%s/%s#%d", c.owner, c.repo, int(issue.Number)),
		URL: string(issue.URL),
	}, nil
}

// ValidateRepository checks that the repository is reachable and accepts issues
func (c *Client) ValidateRepository(ctx context.Context) (*RepositoryValidation, error) {
	var q repositoryQuery
	variables := map[string]interface{}{
		"owner": githubv4.String(c.owner),
		"name":  githubv4.String(c.repo),
	}

	if err := c.gql.Query(ctx, &q, variables); err != nil {
		return &RepositoryValidation{
			Valid:        false,
			Owner:        c.owner,
			Repo:         c.repo,
			ErrorMessage: err.Error(),
		}, nil
	}

	r := q.Repository
	result := &RepositoryValidation{
		Valid:         bool(r.HasIssuesEnabled),
		Owner:         c.owner,
		Repo:          c.repo,
		FullName:      string(r.NameWithOwner),
		IsPrivate:     bool(r.IsPrivate),
		IssuesEnabled: bool(r.HasIssuesEnabled),
	}
	if !result.IssuesEnabled {
		result.ErrorMessage = "issues are disabled on the repository"
	}

	return result, nil
}

func (c *Client) repositoryID(ctx context.Context) (githubv4.ID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.repoID != nil {
		return c.repoID, nil
	}

	var q repositoryQuery
	variables := map[string]interface{}{
		"owner": githubv4.String(c.owner),
		"name":  githubv4.String(c.repo),
	}
	if err := c.gql.Query(ctx, &q, variables); err != nil {
		return nil, goerr.Wrap(err, "failed to look up repository",
			goerr.V("owner", c.owner), goerr.V("repo", c.repo))
	}
	if !q.Repository.HasIssuesEnabled {
		return nil, goerr.New("issues are disabled on the repository",
			goerr.V("owner", c.owner), goerr.V("repo", c.repo))
	}

	c.repoID = q.Repository.ID
	return c.repoID, nil
}

// GraphQL query types

type repositoryQuery struct {
	Repository struct {
		ID               githubv4.ID
		NameWithOwner    githubv4.String
		IsPrivate        githubv4.Boolean
		HasIssuesEnabled githubv4.Boolean
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type createIssueMutation struct {
	CreateIssue struct {
		Issue struct {
			Number githubv4.Int
			URL    githubv4.String
		}
	} `graphql:"createIssue(input: $input)"`
}

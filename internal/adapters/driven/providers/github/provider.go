package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/multisearch/internal/core/domain"
	"github.com/custodia-labs/multisearch/internal/core/ports/driven"
	"github.com/custodia-labs/multisearch/internal/logger"
)

// SourceID is the settings identifier of the GitHub source.
const SourceID = "github"

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResults caps the results returned per search.
	DefaultMaxResults = 30

	snippetLength = 160
)

// Ensure Provider implements the interface.
var _ driven.SourceProvider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider) error

// WithBaseURL points the client at a different API endpoint,
// such as GitHub Enterprise or a test server.
func WithBaseURL(base string) Option {
	return func(p *Provider) error {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("parse base URL: %w", err)
		}
		p.gh.BaseURL = u
		return nil
	}
}

// WithRateLimiter replaces the default limiter.
func WithRateLimiter(r *RateLimiter) Option {
	return func(p *Provider) error {
		p.rateLimiter = r
		return nil
	}
}

// WithMaxResults sets the per-search result cap.
func WithMaxResults(n int) Option {
	return func(p *Provider) error {
		if n <= 0 {
			return fmt.Errorf("%w: max results must be positive", domain.ErrInvalidInput)
		}
		p.maxResults = n
		return nil
	}
}

// Provider searches GitHub issues and pull requests.
type Provider struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
	maxResults  int
}

// New creates a GitHub provider. An empty token searches anonymously,
// which GitHub limits to public content and a lower request rate.
func New(token string, opts ...Option) (*Provider, error) {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(context.Background(), ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = DefaultTimeout

	p := &Provider{
		gh:          gh.NewClient(hc),
		rateLimiter: NewRateLimiter(ProactiveRate, ProactiveBurst),
		maxResults:  DefaultMaxResults,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ID returns the source identifier.
func (p *Provider) ID() string {
	return SourceID
}

// Search runs query against the issue search API, best match first.
func (p *Provider) Search(ctx context.Context, query string) ([]domain.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.SearchOptions{ListOptions: gh.ListOptions{PerPage: p.maxResults}}
	found, resp, err := p.gh.Search.Issues(ctx, query, opts)
	p.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, p.wrapError(err)
	}
	if found.GetIncompleteResults() {
		logger.Debug("github: incomplete results for %q", query)
	}

	issues := found.Issues
	if len(issues) > p.maxResults {
		issues = issues[:p.maxResults]
	}

	results := make([]domain.Result, 0, len(issues))
	for i, issue := range issues {
		results = append(results, toResult(issue, i, len(issues)))
	}
	return results, nil
}

// toResult converts the issue at rank i of n. Scores fall linearly with rank
// so GitHub's best-match order survives merging.
func toResult(issue *gh.Issue, i, n int) domain.Result {
	kind := "issue"
	if issue.IsPullRequest() {
		kind = "pr"
	}

	title := issue.GetTitle()
	if repo := repoName(issue.GetRepositoryURL()); repo != "" {
		title = fmt.Sprintf("%s#%d %s", repo, issue.GetNumber(), title)
	}

	return domain.Result{
		ID:        SourceID + ":" + kind + ":" + strconv.FormatInt(issue.GetID(), 10),
		SourceID:  SourceID,
		Title:     title,
		URL:       issue.GetHTMLURL(),
		Snippet:   firstLine(issue.GetBody()),
		Score:     float64(n-i) / float64(n),
		UpdatedAt: issue.GetUpdatedAt().Time,
	}
}

// repoName extracts "owner/repo" from an API repository URL.
func repoName(apiURL string) string {
	_, after, ok := strings.Cut(apiURL, "/repos/")
	if !ok {
		return ""
	}
	return after
}

func firstLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > snippetLength {
			return strings.ToValidUTF8(line[:snippetLength], "") + "..."
		}
		return line
	}
	return ""
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (p *Provider) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	p.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to domain errors.
func (p *Provider) wrapError(err error) error {
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Errorf("%w: github: resets at %s", domain.ErrRateLimited,
			rateLimitErr.Rate.Reset.Format(time.RFC3339))
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: github: secondary rate limit", domain.ErrRateLimited)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return fmt.Errorf("%w: github: API error %d: %s",
			domain.ErrSourceUnavailable, ghErr.Response.StatusCode, ghErr.Message)
	}

	return fmt.Errorf("%w: github: %v", domain.ErrSourceUnavailable, err)
}

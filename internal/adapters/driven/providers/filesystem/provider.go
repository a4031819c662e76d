package filesystem

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/multisearch/internal/core/domain"
	"github.com/custodia-labs/multisearch/internal/core/ports/driven"
	"github.com/custodia-labs/multisearch/internal/logger"
)

// SourceID is the settings identifier of the filesystem source.
const SourceID = "filesystem"

const (
	// MaxFileSize is the largest file whose content is searched.
	MaxFileSize = 1 << 20

	// DefaultMaxResults caps the results returned per search.
	DefaultMaxResults = 50

	// snippetLength caps the snippet taken from the first matching line.
	snippetLength = 160
)

// Ensure Provider implements the interface.
var _ driven.SourceProvider = (*Provider)(nil)

// Provider searches file paths and text content below a root directory.
type Provider struct {
	root       string
	maxResults int
}

// New creates a filesystem provider rooted at root.
func New(root string) *Provider {
	return &Provider{
		root:       root,
		maxResults: DefaultMaxResults,
	}
}

// ID returns the source identifier.
func (p *Provider) ID() string {
	return SourceID
}

// Search walks the root and returns files containing every query term in
// their path or content. Hidden entries and files over MaxFileSize are skipped.
func (p *Provider) Search(ctx context.Context, query string) ([]domain.Result, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	root, err := filepath.Abs(p.root)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve root: %v", domain.ErrSourceUnavailable, err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrSourceUnavailable, root)
	}

	var results []domain.Result
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			logger.Debug("filesystem: skipping %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if isHidden(rel) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if r, ok := p.match(path, rel, d, terms); ok {
			results = append(results, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	domain.SortResults(results, domain.SortByRelevance)
	if len(results) > p.maxResults {
		results = results[:p.maxResults]
	}
	return results, nil
}

// match scores one file against terms.
func (p *Provider) match(path, rel string, d fs.DirEntry, terms []string) (domain.Result, bool) {
	info, err := d.Info()
	if err != nil {
		return domain.Result{}, false
	}

	var content []byte
	if info.Size() <= MaxFileSize {
		content, err = os.ReadFile(path)
		if err != nil || !isText(content) {
			content = nil
		}
	}

	lowerPath := strings.ToLower(rel)
	lowerContent := strings.ToLower(string(content))

	hits := 0
	for _, term := range terms {
		n := strings.Count(lowerPath, term) + strings.Count(lowerContent, term)
		if n == 0 {
			return domain.Result{}, false
		}
		hits += n
	}

	url := "file://" + path
	return domain.Result{
		ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String(),
		SourceID:  SourceID,
		Title:     filepath.ToSlash(rel),
		URL:       url,
		Snippet:   snippet(content, terms),
		Score:     float64(hits),
		UpdatedAt: info.ModTime(),
	}, true
}

// snippet returns the first line containing any term, trimmed.
func snippet(content []byte, terms []string) string {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		lower := strings.ToLower(line)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return truncate(strings.TrimSpace(line), snippetLength)
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// isText reports whether content looks like text: no NUL byte in its head.
func isText(content []byte) bool {
	head := content
	if len(head) > 8000 {
		head = head[:8000]
	}
	return bytes.IndexByte(head, 0) < 0
}

// isHidden checks if any component of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}

// ResolvePath converts a result URL back to a local path.
func ResolvePath(url string) string {
	return strings.TrimPrefix(url, "file://")
}

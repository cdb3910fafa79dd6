package notion

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/longkey1/notionquery/internal/notion/api"
	"github.com/longkey1/notionquery/internal/notion/types"
	"github.com/longkey1/notionquery/internal/notionquery/config"
)

// Client is the backend the query engine talks to
type Client = types.Client

// NewClient creates a Notion REST client from the config
func NewClient(cfg *config.Config, logger *zap.Logger) (Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("token is required")
	}

	return api.NewClient(cfg.Token,
		api.WithBaseURL(cfg.BaseURL),
		api.WithNotionVersion(cfg.NotionVersion),
		api.WithLogger(logger),
	), nil
}

var (
	compactID = regexp.MustCompile(`[0-9a-fA-F]{32}$`)
	dashedID  = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// NormalizeID accepts a raw or hyphenated ID, or a Notion URL, and returns the
// canonical hyphenated form
func NormalizeID(idOrURL string) (string, error) {
	s := strings.TrimSpace(idOrURL)

	if u, err := url.Parse(s); err == nil && u.Host != "" {
		// Page URLs end in "<slug>-<id>"; query strings may carry a block anchor
		s = u.Path
	}

	candidate := compactID.FindString(s)
	if candidate == "" {
		candidate = dashedID.FindString(s)
	}
	if candidate == "" {
		return "", fmt.Errorf("invalid Notion ID: %q", idOrURL)
	}

	id, err := uuid.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("invalid Notion ID %q: %w", idOrURL, err)
	}
	return id.String(), nil
}

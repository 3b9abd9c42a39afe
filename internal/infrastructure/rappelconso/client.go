// Package rappelconso queries the official RappelConso recall dataset through the
// Opendatasoft explore API (v2.1).
package rappelconso

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rappelscan/backend/internal/domain"
	"github.com/rappelscan/backend/internal/infrastructure/httputil"
)

// DefaultBaseURL is the dataset endpoint of the recall feed
const DefaultBaseURL = "https://data.economie.gouv.fr/api/explore/v2.1/catalog/datasets/rappelconso-v2-gtin-trie"

// Feed API limits a single page to 100 records
const maxPageSize = 100

const newestFirst = "date_publication DESC"

// Client handles communication with the recall feed
type Client struct {
	http    *httputil.Client
	baseURL string
	log     logrus.FieldLogger
}

// NewClient creates a new recall feed client
func NewClient(baseURL string, config httputil.Config, logger logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	log := logger.WithField("component", "rappelconso")
	return &Client{
		http:    httputil.NewClient(config, log),
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// ByGTIN returns the recalls whose gtin equals the code, newest first
func (c *Client) ByGTIN(ctx context.Context, gtin string, limit int) ([]domain.RecallRecord, error) {
	gtin = strings.TrimSpace(gtin)
	if gtin == "" {
		return nil, domain.ErrInvalidRequest
	}
	where := fmt.Sprintf("gtin=%s", quote(gtin))
	return c.records(ctx, where, limit)
}

// Search returns the recalls whose name or brand matches the phrase, newest first
func (c *Client) Search(ctx context.Context, phrase string, limit int) ([]domain.RecallRecord, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return nil, domain.ErrInvalidRequest
	}
	q := quote(phrase)
	where := fmt.Sprintf("search(libelle, %s) OR search(marque_produit, %s)", q, q)
	return c.records(ctx, where, limit)
}

// Latest returns the most recently published recalls
func (c *Client) Latest(ctx context.Context, limit int) ([]domain.RecallRecord, error) {
	return c.records(ctx, "", limit)
}

// records runs one query against the records endpoint
func (c *Client) records(ctx context.Context, where string, limit int) ([]domain.RecallRecord, error) {
	reqURL := c.recordsURL(where, limit)

	var resp domain.RecallFeedResponse
	if err := c.http.GetJSON(ctx, reqURL, &resp); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedFailure, err)
	}

	c.log.WithFields(logrus.Fields{
		"where":   where,
		"results": len(resp.Results),
		"total":   resp.TotalCount,
	}).Debug("Feed query completed")

	if resp.Results == nil {
		return []domain.RecallRecord{}, nil
	}
	return resp.Results, nil
}

func (c *Client) recordsURL(where string, limit int) string {
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	params := url.Values{}
	if where != "" {
		params.Set("where", where)
	}
	params.Set("order_by", newestFirst)
	params.Set("limit", strconv.Itoa(limit))
	return fmt.Sprintf("%s/records?%s", c.baseURL, params.Encode())
}

// quote renders s as an ODSQL string literal
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// Package openfoodfacts queries the Open Food Facts product catalog
package openfoodfacts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rappelscan/backend/internal/domain"
	"github.com/rappelscan/backend/internal/infrastructure/httputil"
)

// DefaultBaseURL is the public Open Food Facts host
const DefaultBaseURL = "https://world.openfoodfacts.org"

// productFields limits lookups to the fields the service reads
const productFields = "code,product_name,generic_name,brands,unique_scans_n"

// Client handles communication with the product catalog
type Client struct {
	http     *httputil.Client
	baseURL  string
	country  string
	pageSize int
	log      logrus.FieldLogger
}

// NewClient creates a catalog client. country filters searches; empty means worldwide.
func NewClient(baseURL, country string, pageSize int, config httputil.Config, logger logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	log := logger.WithField("component", "openfoodfacts")
	return &Client{
		http:     httputil.NewClient(config, log),
		baseURL:  strings.TrimRight(baseURL, "/"),
		country:  country,
		pageSize: pageSize,
		log:      log,
	}
}

// Product looks up a product by barcode. Unknown codes return domain.ErrNotFound.
func (c *Client) Product(ctx context.Context, code string) (*domain.CatalogProduct, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidRequest
	}

	params := url.Values{}
	params.Set("fields", productFields)
	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json?%s", c.baseURL, url.PathEscape(code), params.Encode())

	var resp domain.CatalogProductResponse
	if err := c.http.GetJSON(ctx, reqURL, &resp); err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, c.wrap(err)
	}

	if resp.Status != 1 || resp.Product == nil {
		return nil, domain.ErrNotFound
	}
	if resp.Product.Code == "" {
		resp.Product.Code = code
	}
	return resp.Product, nil
}

// Search runs a free-text search sorted by popularity
func (c *Client) Search(ctx context.Context, query string) ([]domain.CatalogProduct, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(c.pageSize))
	params.Set("sort_by", "unique_scans_n")
	params.Set("fields", productFields)
	if c.country != "" {
		params.Set("countries", c.country)
	}
	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode())

	var resp domain.CatalogSearchResponse
	if err := c.http.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil, c.wrap(err)
	}

	c.log.WithFields(logrus.Fields{
		"query":    query,
		"products": len(resp.Products),
	}).Debug("Catalog search completed")

	if resp.Products == nil {
		return []domain.CatalogProduct{}, nil
	}
	return resp.Products, nil
}

func (c *Client) wrap(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrCatalogFailure, err)
}

package gspns

import (
	"context"
	"time"

	"github.com/nikolasamardzija/busNS-rest-api/services/scraper"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	resty "gopkg.in/resty.v1"
)

var (
	fetchCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gspns_fetch_total",
		Help: "Number of pages fetched from gspns.co.rs",
	}, []string{"kind", "outcome"})
	fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gspns_fetch_duration_seconds",
		Help:    "Time spent fetching pages from gspns.co.rs",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(fetchCount, fetchDuration)
}

// Client fetches raw pages from the operator site. It does not retry.
type Client struct {
	http    *resty.Client
	baseURL string
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, userAgent string, logger *zap.Logger) *Client {
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	return &Client{http: c, baseURL: baseURL, logger: logger}
}

// FetchLanding returns the page carrying the valid day/direction/date options.
func (c *Client) FetchLanding(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, "landing", LandingURL(c.baseURL))
}

func (c *Client) FetchListing(ctx context.Context, rv, validFrom, day string) ([]byte, error) {
	return c.fetch(ctx, "listing", ListingURL(c.baseURL, rv, validFrom, day))
}

func (c *Client) FetchSchedule(ctx context.Context, rv, validFrom, day, line string) ([]byte, error) {
	return c.fetch(ctx, "schedule", ScheduleURL(c.baseURL, rv, validFrom, day, line))
}

func (c *Client) fetch(ctx context.Context, kind, url string) ([]byte, error) {
	start := time.Now()
	defer func() { fetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds()) }()

	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		fetchCount.WithLabelValues(kind, "error").Inc()
		c.logger.Warn("gspns fetch failed", zap.String("url", url), zap.Error(err))
		return nil, &scraper.TransportError{URL: url, Err: err}
	}
	if resp.IsError() {
		fetchCount.WithLabelValues(kind, "error").Inc()
		c.logger.Warn("gspns returned error status", zap.String("url", url), zap.Int("status", resp.StatusCode()))
		return nil, &scraper.TransportError{URL: url, Status: resp.StatusCode()}
	}

	fetchCount.WithLabelValues(kind, "ok").Inc()
	c.logger.Debug("gspns page fetched", zap.String("url", url), zap.Int("bytes", len(resp.Body())))
	return resp.Body(), nil
}

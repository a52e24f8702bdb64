package gspns

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-redis/redis/v8"
	"github.com/nikolasamardzija/busNS-rest-api/services/scraper"
	"go.uber.org/zap"
)

const baseValuesKey = "gspns:base-values"

// BaseValues are the request parameters the operator currently accepts.
type BaseValues struct {
	ValidFrom  []string `json:"vaziod"`
	Days       []string `json:"dan"`
	Directions []string `json:"rv"`
}

func (b BaseValues) ValidDayCodes() []string       { return b.Days }
func (b BaseValues) ValidDirectionCodes() []string { return b.Directions }

// LatestValidFrom is the newest "valid from" date, the last option on the page.
func (b BaseValues) LatestValidFrom() string {
	if len(b.ValidFrom) == 0 {
		return ""
	}
	return b.ValidFrom[len(b.ValidFrom)-1]
}

func (b BaseValues) HasDay(day string) bool { return contains(b.Days, day) }

func (b BaseValues) HasDirection(rv string) bool { return contains(b.Directions, rv) }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ParseBaseValues reads the option values of the vaziod, dan and rv pickers.
func ParseBaseValues(r io.Reader) (BaseValues, error) {
	root, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return BaseValues{}, fmt.Errorf("%w: %v", scraper.ErrMalformedDocument, err)
	}
	values := func(name string) []string {
		var out []string
		for _, o := range scraper.Options(root.Selection, fmt.Sprintf("select[name=%s] option", name)) {
			if o.Value != "" {
				out = append(out, o.Value)
			}
		}
		return out
	}
	b := BaseValues{
		ValidFrom:  values("vaziod"),
		Days:       values("dan"),
		Directions: values("rv"),
	}
	if len(b.ValidFrom) == 0 || len(b.Days) == 0 || len(b.Directions) == 0 {
		return BaseValues{}, fmt.Errorf("%w: base values incomplete (vaziod=%d dan=%d rv=%d)",
			scraper.ErrMalformedDocument, len(b.ValidFrom), len(b.Days), len(b.Directions))
	}
	return b, nil
}

// Resolver resolves BaseValues, caching them in Redis when a client is set.
type Resolver struct {
	client *Client
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewResolver(client *Client, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{client: client, cache: cache, ttl: ttl, logger: logger}
}

func (r *Resolver) BaseValues(ctx context.Context) (BaseValues, error) {
	if r.cache != nil {
		data, err := r.cache.Get(ctx, baseValuesKey).Bytes()
		if err == nil {
			var b BaseValues
			if err := json.Unmarshal(data, &b); err == nil {
				return b, nil
			}
		} else if err != redis.Nil {
			r.logger.Warn("base values cache read failed", zap.Error(err))
		}
	}

	page, err := r.client.FetchLanding(ctx)
	if err != nil {
		return BaseValues{}, err
	}
	b, err := ParseBaseValues(bytes.NewReader(page))
	if err != nil {
		return BaseValues{}, err
	}

	if r.cache != nil {
		data, _ := json.Marshal(b)
		if err := r.cache.Set(ctx, baseValuesKey, data, r.ttl).Err(); err != nil {
			r.logger.Warn("base values cache write failed", zap.Error(err))
		}
	}
	return b, nil
}

// Invalidate drops the cached base values.
func (r *Resolver) Invalidate(ctx context.Context) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Del(ctx, baseValuesKey).Err()
}

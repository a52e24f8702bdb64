package timetable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	timetableRepo "github.com/nikolasamardzija/busNS-rest-api/database/repository/timetable"
	"github.com/nikolasamardzija/busNS-rest-api/models"
	"github.com/nikolasamardzija/busNS-rest-api/services/gspns"
	"github.com/nikolasamardzija/busNS-rest-api/services/scraper"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultTimetableService implements TimetableService. It keeps no per-request
// state, so concurrent calls never share anything but its collaborators.
type DefaultTimetableService struct {
	Upstream    Upstream
	Resolver    BaseValuesResolver
	Repo        timetableRepo.TimetableRepository
	Cache       TimetableCache
	Listings    *gocache.Cache // optional
	Logger      *zap.Logger
	Concurrency int
	Now         func() time.Time
}

// params are normalized and validated request parameters.
type params struct {
	day       models.DayCode
	rv        string
	validFrom string
}

func (s *DefaultTimetableService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// resolve validates day and rv against the upstream base values. An unknown or
// missing day falls back to R; an unknown rv is rejected.
func (s *DefaultTimetableService) resolve(ctx context.Context, day, rv string) (params, error) {
	b, err := s.Resolver.BaseValues(ctx)
	if err != nil {
		return params{}, fmt.Errorf("resolve base values: %w", err)
	}
	p := params{
		day:       models.ParseDayCode(day),
		rv:        strings.ToLower(strings.TrimSpace(rv)),
		validFrom: b.LatestValidFrom(),
	}
	if !b.HasDay(p.day.String()) {
		if p.day != "" {
			s.Logger.Debug("unknown day code, using R", zap.String("day", day))
		}
		p.day = models.DayRegular
	}
	if !b.HasDirection(p.rv) {
		return params{}, scraper.InvalidParameter("rv", rv)
	}
	return p, nil
}

func normalizeLine(line string) (string, error) {
	l := strings.ToUpper(strings.TrimSpace(line))
	if l == "" {
		return "", scraper.InvalidParameter("line", line)
	}
	return l, nil
}

func (s *DefaultTimetableService) GetTimetable(ctx context.Context, line, day, rv string) (*models.Timetable, error) {
	id, err := normalizeLine(line)
	if err != nil {
		return nil, err
	}
	p, err := s.resolve(ctx, day, rv)
	if err != nil {
		return nil, err
	}

	key := timetableRepo.Key{ID: id, Day: p.day, Direction: p.rv}
	if cached, err := s.Cache.Get(ctx, key); err != nil {
		s.Logger.Warn("timetable cache read failed", zap.String("line", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	tt, err := s.extract(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.store(ctx, tt)
	return tt, nil
}

func (s *DefaultTimetableService) StoredTimetable(ctx context.Context, line, day, rv string) (*models.Timetable, error) {
	id, err := normalizeLine(line)
	if err != nil {
		return nil, err
	}
	direction, err := storedDirection(rv)
	if err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, timetableRepo.Key{ID: id, Day: storedDay(day), Direction: direction})
}

func (s *DefaultTimetableService) StoredTimetables(ctx context.Context, day, rv string) ([]models.Timetable, error) {
	direction, err := storedDirection(rv)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByDay(ctx, storedDay(day), direction)
}

// storedDirection normalizes rv for Mongo-only reads. A direction is never defaulted.
func storedDirection(rv string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(rv))
	if d == "" {
		return "", scraper.InvalidParameter("rv", rv)
	}
	return d, nil
}

// storedDay validates a day locally, without consulting upstream.
func storedDay(day string) models.DayCode {
	d := models.ParseDayCode(day)
	switch d {
	case models.DayRegular, models.DaySaturday, models.DaySunday:
		return d
	default:
		return models.DayRegular
	}
}

func (s *DefaultTimetableService) ListLines(ctx context.Context, kind ListingKind, day string) ([]models.LineOption, error) {
	rv, ok := kind.Direction()
	if !ok {
		return nil, scraper.InvalidParameter("kind", string(kind))
	}
	p, err := s.resolve(ctx, day, rv)
	if err != nil {
		return nil, err
	}
	if s.Listings != nil {
		if v, ok := s.Listings.Get(listingKey(p)); ok {
			return append([]models.LineOption(nil), v.([]models.LineOption)...), nil
		}
	}
	lines, err := s.listLines(ctx, p)
	if err != nil {
		return nil, err
	}
	s.memoListing(p, lines)
	return lines, nil
}

func listingKey(p params) string {
	return p.rv + ":" + p.day.String() + ":" + p.validFrom
}

func (s *DefaultTimetableService) memoListing(p params, lines []models.LineOption) {
	if s.Listings != nil {
		s.Listings.SetDefault(listingKey(p), append([]models.LineOption(nil), lines...))
	}
}

func (s *DefaultTimetableService) listLines(ctx context.Context, p params) ([]models.LineOption, error) {
	page, err := s.Upstream.FetchListing(ctx, p.rv, p.validFrom, p.day.String())
	if err != nil {
		return nil, err
	}
	return scraper.ExtractLineOptions(bytes.NewReader(page))
}

// extract fetches and extracts one timetable, then stamps the request metadata on it.
func (s *DefaultTimetableService) extract(ctx context.Context, id string, p params) (*models.Timetable, error) {
	page, err := s.Upstream.FetchSchedule(ctx, p.rv, p.validFrom, p.day.String(), id)
	if err != nil {
		return nil, err
	}
	tt, err := scraper.ExtractTimetable(bytes.NewReader(page), id, p.day)
	if err != nil {
		return nil, fmt.Errorf("line %s day %s: %w", id, p.day, err)
	}
	return tt.WithMeta(p.rv, p.validFrom, s.now()), nil
}

// store persists and caches a timetable. Failures are logged; the extracted record is still valid.
func (s *DefaultTimetableService) store(ctx context.Context, tt *models.Timetable) {
	if err := s.Repo.Upsert(ctx, tt); err != nil {
		s.Logger.Error("failed to persist timetable", zap.String("line", tt.ID), zap.String("day", tt.Day.String()), zap.Error(err))
	}
	if err := s.Cache.Set(ctx, tt); err != nil {
		s.Logger.Warn("failed to cache timetable", zap.String("line", tt.ID), zap.Error(err))
	}
}

func (s *DefaultTimetableService) Refresh(ctx context.Context, day, rv string) (RefreshReport, error) {
	if err := s.Resolver.Invalidate(ctx); err != nil {
		s.Logger.Warn("failed to invalidate base values", zap.Error(err))
	}
	p, err := s.resolve(ctx, day, rv)
	if err != nil {
		return RefreshReport{}, err
	}
	lines, err := s.listLines(ctx, p)
	if err != nil {
		return RefreshReport{}, err
	}
	s.memoListing(p, lines)

	report := RefreshReport{Day: p.day, Direction: p.rv, Total: len(lines)}
	var mu sync.Mutex

	limit := s.Concurrency
	if limit <= 0 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)

	for _, line := range lines {
		id := strings.ToUpper(strings.TrimSpace(line.Value))
		g.Go(func() error {
			tt, err := s.extract(ctx, id, p)
			switch {
			case errors.Is(err, scraper.ErrEmptySchedule):
				if derr := s.Cache.Delete(ctx, timetableRepo.Key{ID: id, Day: p.day, Direction: p.rv}); derr != nil {
					s.Logger.Warn("failed to drop cached timetable", zap.String("line", id), zap.Error(derr))
				}
				mu.Lock()
				report.Empty++
				mu.Unlock()
			case err != nil:
				s.Logger.Warn("refresh failed for line", zap.String("line", id), zap.Error(err))
				mu.Lock()
				report.Failed++
				mu.Unlock()
			default:
				s.store(ctx, tt)
				mu.Lock()
				report.Updated++
				mu.Unlock()
			}
			// per-line failures are counted, not returned
			return nil
		})
	}
	_ = g.Wait()

	s.Logger.Info("timetable refresh finished",
		zap.String("day", report.Day.String()),
		zap.String("rv", report.Direction),
		zap.Int("total", report.Total),
		zap.Int("updated", report.Updated),
		zap.Int("empty", report.Empty),
		zap.Int("failed", report.Failed))
	return report, ctx.Err()
}

var _ TimetableService = (*DefaultTimetableService)(nil)
var _ BaseValuesResolver = (*gspns.Resolver)(nil)

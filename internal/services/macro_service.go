package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/crisisboard/internal/feeds"
	"github.com/epeers/crisisboard/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// macroIndicatorCodes maps each indicator kind to its World Bank series
var macroIndicatorCodes = map[models.IndicatorKind]string{
	models.IndicatorInflation: "FP.CPI.TOTL.ZG",
	models.IndicatorGrowth:    "NY.GDP.MKTP.KD.ZG",
	models.IndicatorDefense:   "MS.MIL.XPND.GD.ZS",
}

// MacroService retrieves the macro indicator series for one country
type MacroService struct {
	fetcher  feeds.Fetcher
	baseURL  string
	country  string
	lookback int
}

// NewMacroService creates a new MacroService
func NewMacroService(fetcher feeds.Fetcher, baseURL, country string, lookback int) *MacroService {
	if lookback <= 0 {
		lookback = 15
	}
	return &MacroService{fetcher: fetcher, baseURL: baseURL, country: country, lookback: lookback}
}

// FetchMacro fetches every indicator concurrently. A transport failure fails
// the whole section; an indicator whose payload cannot be parsed is left out.
func (s *MacroService) FetchMacro(ctx context.Context) (models.MacroOverview, []models.MacroSeries, error) {
	defer TrackTime("FetchMacro", time.Now())

	slots := make([]*models.MacroSeries, len(models.IndicatorKinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range models.IndicatorKinds {
		g.Go(func() error {
			body, err := s.fetcher.Get(gctx, feeds.IndicatorURL(s.baseURL, s.country, macroIndicatorCodes[kind], s.lookback))
			if err != nil {
				return fmt.Errorf("failed to fetch %s series: %w", kind, err)
			}
			records, err := feeds.ParseIndicator(body)
			if err != nil {
				var pe *feeds.ParseError
				if errors.As(err, &pe) {
					log.Warnf("FetchMacro: dropping %s series: %v", kind, err)
					return nil
				}
				return err
			}
			series := feeds.IndicatorSeries(kind, "%", records)
			slots[i] = &series
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.MacroOverview{}, nil, err
	}

	var series []models.MacroSeries
	for _, slot := range slots {
		if slot != nil {
			series = append(series, *slot)
		}
	}
	return MacroOverviewFromSeries(s.country, series), series, nil
}

// MacroOverviewFromSeries takes the last two points of every non-empty series
func MacroOverviewFromSeries(country string, series []models.MacroSeries) models.MacroOverview {
	overview := models.MacroOverview{Country: country}
	for _, s := range series {
		n := len(s.Points)
		if n == 0 {
			continue
		}
		ind := models.MacroIndicator{
			Kind:   s.Kind,
			Latest: s.Points[n-1].Value,
			Year:   s.Points[n-1].Year,
			Unit:   s.Unit,
		}
		if n > 1 {
			prev := s.Points[n-2].Value
			ind.Previous = &prev
		}
		overview.Indicators = append(overview.Indicators, ind)
	}
	return overview
}

package picks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sharpshooter/ingestion/internal/models"
	"sharpshooter/ingestion/internal/predict"

	"github.com/rs/zerolog/log"
)

// Cache keys for assembled pick lists.
const (
	CacheKeyGames = "picks:games"
	CacheKeyProps = "picks:props"
)

// CandidateSource supplies candidates from the persisted schema.
// *repository.PlayerStatsRepository satisfies it.
type CandidateSource interface {
	LatestGames(ctx context.Context, limit int) ([]models.GameSummary, error)
	RecentForm(ctx context.Context, window, limit int) ([]models.PlayerForm, error)
}

// Cache stores assembled pick lists. *cache.RedisCache satisfies it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Options tunes candidate selection.
type Options struct {
	GamesLimit int
	PropsLimit int // players considered for props
	FormWindow int // recent games averaged per player
	CacheTTL   time.Duration
}

func (o Options) withDefaults() Options {
	if o.GamesLimit <= 0 {
		o.GamesLimit = 15
	}
	if o.PropsLimit <= 0 {
		o.PropsLimit = 50
	}
	if o.FormWindow <= 0 {
		o.FormWindow = 10
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 10 * time.Minute
	}
	return o
}

// Service assembles game and prop picks from persisted stats and a predictor.
type Service struct {
	source    CandidateSource
	predictor predict.Predictor
	cache     Cache
	opts      Options
}

// NewService creates a picks service. cache may be nil.
func NewService(source CandidateSource, predictor predict.Predictor, cache Cache, opts Options) *Service {
	return &Service{
		source:    source,
		predictor: predictor,
		cache:     cache,
		opts:      opts.withDefaults(),
	}
}

// GamePicks returns game picks, newest game first. An unavailable model
// yields an empty list, not an error.
func (s *Service) GamePicks(ctx context.Context) ([]GamePick, error) {
	var cached []GamePick
	if s.fromCache(ctx, CacheKeyGames, &cached) {
		return cached, nil
	}

	games, err := s.source.LatestGames(ctx, s.opts.GamesLimit)
	if err != nil {
		return nil, fmt.Errorf("load game candidates: %w", err)
	}

	out := make([]GamePick, 0, len(games))
	for i := range games {
		g := games[i]
		p, err := s.predict(ctx, predict.Context{Kind: predict.KindGame, Game: &g})
		if errors.Is(err, predict.ErrModelUnavailable) {
			return []GamePick{}, nil
		}
		if err != nil {
			log.Warn().Err(err).Str("game_id", g.GameID).Msg("Skipping game pick")
			continue
		}

		pHome := p.Confidence
		if !strings.EqualFold(p.Label, "win") && !strings.EqualFold(p.Label, g.HomeTeam) {
			pHome = 1 - p.Confidence
		}

		out = append(out, GamePick{
			ID:         len(out) + 1,
			Team:       g.HomeTeam,
			Opponent:   g.AwayTeam,
			StartTime:  g.GameDate,
			Confidence: p.Confidence,
			Prediction: p.Label,
			Odds:       Odds{Home: FairOdds(pHome), Away: FairOdds(1 - pHome)},
		})
	}

	s.toCache(ctx, CacheKeyGames, out)
	return out, nil
}

// PropPicks returns points, rebounds and assists props for the players in
// best recent form.
func (s *Service) PropPicks(ctx context.Context) ([]PropPick, error) {
	var cached []PropPick
	if s.fromCache(ctx, CacheKeyProps, &cached) {
		return cached, nil
	}

	form, err := s.source.RecentForm(ctx, s.opts.FormWindow, s.opts.PropsLimit)
	if err != nil {
		return nil, fmt.Errorf("load prop candidates: %w", err)
	}

	out := make([]PropPick, 0, len(form)*len(Markets))
	for i := range form {
		f := form[i]
		for _, market := range Markets {
			line := PropLine(average(f, market))
			p, err := s.predict(ctx, predict.Context{Kind: predict.KindProp, Player: &f, Market: market, Line: line})
			if errors.Is(err, predict.ErrModelUnavailable) {
				return []PropPick{}, nil
			}
			if err != nil {
				log.Warn().Err(err).Int("player_id", f.PlayerID).Str("market", market).Msg("Skipping prop pick")
				continue
			}

			out = append(out, PropPick{
				ID:         len(out) + 1,
				Player:     f.FullName,
				Game:       f.LastMatchup,
				StartTime:  f.LastGameDate,
				Confidence: p.Confidence,
				Name:       fmt.Sprintf("%s %s %.1f %s", f.FullName, p.Label, line, market),
				Market:     market,
				Line:       line,
				Odds:       FairOdds(p.Confidence),
			})
		}
	}

	s.toCache(ctx, CacheKeyProps, out)
	return out, nil
}

// predict calls the predictor and rejects invalid results.
func (s *Service) predict(ctx context.Context, pc predict.Context) (predict.Prediction, error) {
	p, err := s.predictor.Predict(ctx, pc)
	if err != nil {
		return predict.Prediction{}, err
	}
	if err := p.Validate(); err != nil {
		return predict.Prediction{}, fmt.Errorf("invalid prediction: %w", err)
	}
	return p, nil
}

func (s *Service) fromCache(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.GetJSON(ctx, key, dest)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return false
	}
	return ok
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, s.opts.CacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

func average(f models.PlayerForm, market string) float64 {
	switch market {
	case MarketRebounds:
		return f.AvgRebounds
	case MarketAssists:
		return f.AvgAssists
	default:
		return f.AvgPoints
	}
}

package views

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/jikan-client/pkg/catalog"
	"github.com/Sternrassler/jikan-client/pkg/client"
)

// animeDetail fetches the entry first, then cast and recommendations side by
// side. Failures of the two lists leave them empty instead of failing the page.
func (s *Service) animeDetail(ctx context.Context, id int) (AnimeDetail, error) {
	entry, err := s.api.GetAnimeByID(ctx, id)
	if err != nil {
		return AnimeDetail{}, err
	}
	detail := AnimeDetail{Entry: *entry}

	var g errgroup.Group
	g.Go(func() error {
		characters, err := s.api.GetAnimeCharacters(ctx, id)
		if err != nil {
			s.logDetailFailure(id, "characters", err)
			return nil
		}
		detail.Characters = truncate(characters, DetailListSize)
		return nil
	})
	g.Go(func() error {
		recs, err := s.api.GetAnimeRecommendations(ctx, id)
		if err != nil {
			s.logDetailFailure(id, "recommendations", err)
			return nil
		}
		detail.Recommendations = truncate(recs, DetailListSize)
		return nil
	})
	_ = g.Wait()

	if detail.Characters == nil {
		detail.Characters = []catalog.Character{}
	}
	if detail.Recommendations == nil {
		detail.Recommendations = []catalog.Recommendation{}
	}
	return detail, ctx.Err()
}

func (s *Service) logDetailFailure(id int, part string, err error) {
	s.logger.Warn().
		Err(err).
		Int("anime_id", id).
		Str("part", part).
		Str("error_class", string(client.ClassOf(err))).
		Msg("Detail section unavailable")
}

package catalog

import (
	"context"

	"github.com/sourcegraph/conc"
)

// FetchFullDetails fetches details, credits and recommendations for a movie
// concurrently and waits for all three to settle.
//
// A failed recommendations request yields an empty list. If details or
// credits fail, details are fetched once more on their own and returned with
// empty credits and recommendations; only when that retry fails does the
// whole call fail. Either degradation sets Partial on the result.
func (c *Client) FetchFullDetails(ctx context.Context, movieID int) (*FullDetails, error) {
	if movieID <= 0 {
		return nil, invalidArgument("Invalid movie id: %d", movieID)
	}

	var (
		details    *MovieDetails
		credits    *Credits
		recs       *MovieListResponse
		detailsErr error
		creditsErr error
		recsErr    error
	)

	var wg conc.WaitGroup
	wg.Go(func() { details, detailsErr = c.FetchDetails(ctx, movieID) })
	wg.Go(func() { credits, creditsErr = c.FetchCredits(ctx, movieID) })
	wg.Go(func() { recs, recsErr = c.FetchRecommendations(ctx, movieID, 1) })
	wg.Wait()

	if detailsErr == nil && creditsErr == nil {
		full := &FullDetails{
			Details:         *details,
			Credits:         *credits,
			Recommendations: []Movie{},
		}
		if recsErr != nil {
			c.logger.Warn("recommendations unavailable, continuing without them",
				"movie_id", movieID,
				"error", recsErr,
			)
			full.Partial = true
		} else {
			full.Recommendations = recs.Results
		}
		return full, nil
	}

	firstErr := detailsErr
	if firstErr == nil {
		firstErr = creditsErr
	}
	c.logger.Warn("full details failed, retrying details alone",
		"movie_id", movieID,
		"error", firstErr,
	)

	details, err := c.FetchDetails(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return &FullDetails{
		Details:         *details,
		Credits:         EmptyCredits(movieID),
		Recommendations: []Movie{},
		Partial:         true,
	}, nil
}

package catalog

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	detailsBody = `{"id":603,"title":"The Matrix","overview":"A hacker learns the truth.","release_date":"1999-03-30","vote_average":8.2,"runtime":136,"status":"Released","tagline":"Welcome to the Real World.","budget":63000000,"revenue":463517383,"genres":[{"id":28,"name":"Action"}],"production_companies":[{"id":79,"name":"Village Roadshow Pictures","logo_path":null,"origin_country":"US"}]}`
	creditsBody = `{"id":603,"cast":[{"id":6384,"name":"Keanu Reeves","character":"Neo","order":0}],"crew":[{"id":9339,"name":"Lana Wachowski","job":"Director","department":"Directing"},{"id":9340,"name":"Lilly Wachowski","job":"Director","department":"Directing"}]}`
	recsBody    = `{"page":1,"results":[{"id":604,"title":"The Matrix Reloaded"}],"total_pages":1,"total_results":1}`
)

// detailRoutes serves the three detail-page endpoints with per-route status overrides.
type detailRoutes struct {
	detailsStatus int
	creditsStatus int
	recsStatus    int
	detailsCalls  atomic.Int32
	creditsCalls  atomic.Int32
	recsCalls     atomic.Int32
}

func (d *detailRoutes) handler(w http.ResponseWriter, r *http.Request) {
	fail := `{"success":false,"status_code":11,"status_message":"Internal error: Something went wrong, contact TMDB."}`
	switch r.URL.Path {
	case "/3/movie/603":
		d.detailsCalls.Add(1)
		if d.detailsStatus != 0 {
			writeJSON(w, d.detailsStatus, fail)
			return
		}
		writeJSON(w, http.StatusOK, detailsBody)
	case "/3/movie/603/credits":
		d.creditsCalls.Add(1)
		if d.creditsStatus != 0 {
			writeJSON(w, d.creditsStatus, fail)
			return
		}
		writeJSON(w, http.StatusOK, creditsBody)
	case "/3/movie/603/recommendations":
		d.recsCalls.Add(1)
		if d.recsStatus != 0 {
			writeJSON(w, d.recsStatus, fail)
			return
		}
		writeJSON(w, http.StatusOK, recsBody)
	default:
		http.NotFound(w, r)
	}
}

func TestFetchFullDetails_AllSucceed(t *testing.T) {
	routes := &detailRoutes{}
	client, _ := newTestClient(t, routes.handler)

	full, err := client.FetchFullDetails(context.Background(), 603)
	require.NoError(t, err)

	assert.False(t, full.Partial)
	assert.Equal(t, "The Matrix", full.Details.Title)
	require.NotNil(t, full.Details.Runtime)
	assert.Equal(t, 136, *full.Details.Runtime)
	assert.Equal(t, int64(63000000), full.Details.Budget)
	assert.Equal(t, []string{"Lana Wachowski", "Lilly Wachowski"}, full.Credits.Directors())
	assert.Len(t, full.Credits.TopCast(5), 1)
	require.Len(t, full.Recommendations, 1)
	assert.Equal(t, 604, full.Recommendations[0].ID)
}

func TestFetchFullDetails_RecommendationsFailure(t *testing.T) {
	routes := &detailRoutes{recsStatus: http.StatusInternalServerError}
	client, _ := newTestClient(t, routes.handler)

	full, err := client.FetchFullDetails(context.Background(), 603)
	require.NoError(t, err)

	assert.Equal(t, "The Matrix", full.Details.Title)
	assert.Len(t, full.Credits.Cast, 1)
	assert.NotNil(t, full.Recommendations)
	assert.Empty(t, full.Recommendations)
	assert.True(t, full.Partial)
	assert.Equal(t, int32(1), routes.detailsCalls.Load())
}

func TestFetchFullDetails_CreditsFailureFallsBackToDetails(t *testing.T) {
	routes := &detailRoutes{creditsStatus: http.StatusInternalServerError}
	client, _ := newTestClient(t, routes.handler)

	full, err := client.FetchFullDetails(context.Background(), 603)
	require.NoError(t, err)

	assert.True(t, full.Partial)
	assert.Equal(t, "The Matrix", full.Details.Title)
	assert.Equal(t, EmptyCredits(603), full.Credits)
	assert.Empty(t, full.Recommendations)
	assert.Equal(t, int32(2), routes.detailsCalls.Load(), "details should be fetched again on the fallback path")
}

func TestFetchFullDetails_DetailsFailureIsFatal(t *testing.T) {
	routes := &detailRoutes{detailsStatus: http.StatusNotFound}
	client, _ := newTestClient(t, routes.handler)

	_, err := client.FetchFullDetails(context.Background(), 603)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHTTP)
	assert.Equal(t, 404, StatusCode(err))
	assert.Equal(t, int32(2), routes.detailsCalls.Load())
}

func TestImageURL(t *testing.T) {
	client := NewClient(testToken)
	poster := "/abc123.jpg"
	noSlash := "def.jpg"
	empty := ""

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc123.jpg", client.ImageURL(&poster, PosterSize))
	assert.Equal(t, "https://image.tmdb.org/t/p/original/def.jpg", client.ImageURL(&noSlash, ""))
	assert.Equal(t, "", client.ImageURL(nil, PosterSize))
	assert.Equal(t, "", client.ImageURL(&empty, PosterSize))
	assert.Equal(t, "https://image.tmdb.org/t/p/w780/abc123.jpg", client.BackdropURL(Movie{BackdropPath: &poster}))
	assert.Equal(t, "", client.PosterURL(Movie{}))
}

func TestDownloadImage(t *testing.T) {
	var auth atomic.Value
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		assert.Equal(t, "/img/w500/poster.jpg", r.URL.Path)
		w.Write([]byte("jpegbytes"))
	}, func(cfg *ClientConfig) {
		cfg.ImageBaseURL = cfg.BaseURL[:len(cfg.BaseURL)-len("/3")] + "/img"
	})

	out := filepath.Join(t.TempDir(), "covers", "603.jpg")
	path := "/poster.jpg"
	require.NoError(t, client.DownloadImage(context.Background(), &path, PosterSize, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))
	assert.Equal(t, "", auth.Load(), "the access token must not be sent to the image host")

	err = client.DownloadImage(context.Background(), nil, PosterSize, out)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseCategory(t *testing.T) {
	cases := map[string]Category{
		"now_playing": NowPlaying,
		"now-playing": NowPlaying,
		"Popular":     Popular,
		" upcoming ":  Upcoming,
		"TOP-RATED":   TopRated,
	}
	for in, want := range cases {
		got, err := ParseCategory(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseCategory("latest")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	meta, ok := CategoryInfo(TopRated)
	require.True(t, ok)
	assert.Equal(t, "Top Rated", meta.Name)
	assert.Equal(t, []Category{NowPlaying, Popular, Upcoming, TopRated}, Categories())
}

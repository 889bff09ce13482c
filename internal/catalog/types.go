package catalog

import "fmt"

// MovieListResponse represents a paginated list of movies from the catalog API
type MovieListResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// EmptyListResponse is what a blank search yields.
func EmptyListResponse() *MovieListResponse {
	return &MovieListResponse{Page: 1, Results: []Movie{}, TotalPages: 0, TotalResults: 0}
}

// Movie represents a movie as returned by list endpoints.
// It is a value type; slices holding movies own their copies.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
	Video            bool    `json:"video"`
	OriginalLanguage string  `json:"original_language"`
}

// MovieDetails represents detailed movie information
type MovieDetails struct {
	Movie
	Tagline             string              `json:"tagline"`
	Runtime             *int                `json:"runtime"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	Genres              []Genre             `json:"genres"`
	ProductionCompanies []Company           `json:"production_companies"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	SpokenLanguages     []Language          `json:"spoken_languages"`
	Status              string              `json:"status"`
	IMDbID              string              `json:"imdb_id"`
	Homepage            string              `json:"homepage"`
}

// Genre represents a movie genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the response of the genre list endpoint
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// Company represents a production company
type Company struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	LogoPath      *string `json:"logo_path"`
	OriginCountry string  `json:"origin_country"`
}

// ProductionCountry represents a country a movie was produced in
type ProductionCountry struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// Language represents a spoken language
type Language struct {
	ISO6391     string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

// Credits represents the cast and crew of a movie
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// EmptyCredits returns credits with no cast or crew for the given movie.
func EmptyCredits(movieID int) Credits {
	return Credits{ID: movieID, Cast: []CastMember{}, Crew: []CrewMember{}}
}

// CastMember represents a cast member
type CastMember struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	OriginalName       string  `json:"original_name"`
	Character          string  `json:"character"`
	Order              int     `json:"order"`
	CastID             int     `json:"cast_id"`
	CreditID           string  `json:"credit_id"`
	Gender             int     `json:"gender"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
	ProfilePath        *string `json:"profile_path"`
}

// CrewMember represents a crew member
type CrewMember struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	OriginalName       string  `json:"original_name"`
	Job                string  `json:"job"`
	Department         string  `json:"department"`
	CreditID           string  `json:"credit_id"`
	Gender             int     `json:"gender"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
	ProfilePath        *string `json:"profile_path"`
}

// Directors returns the names of crew members credited as director.
func (c Credits) Directors() []string {
	var names []string
	for _, m := range c.Crew {
		if m.Job == "Director" {
			names = append(names, m.Name)
		}
	}
	return names
}

// TopCast returns at most n cast members in billing order.
func (c Credits) TopCast(n int) []CastMember {
	if n > len(c.Cast) {
		n = len(c.Cast)
	}
	if n < 0 {
		n = 0
	}
	return c.Cast[:n]
}

// FullDetails bundles what a detail page shows.
type FullDetails struct {
	Details         MovieDetails
	Credits         Credits
	Recommendations []Movie
	// Partial is set when credits or recommendations were replaced by
	// empty values because their requests failed.
	Partial bool
}

// ServerError is the body the catalog API sends with non-2xx statuses.
// It is kept as the original error of an ErrHTTP failure.
type ServerError struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("catalog api status %d: %s", e.StatusCode, e.StatusMessage)
}

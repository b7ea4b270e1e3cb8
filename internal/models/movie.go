package models

// MovieSummary represents a movie entry in a TMDb list response
type MovieSummary struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	PosterPath  *string  `json:"poster_path"`
	ReleaseDate *string  `json:"release_date"`
	VoteAverage *float64 `json:"vote_average"`
}

// Genre is a TMDb genre tag
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is a single billed actor from the credits block
type CastMember struct {
	ID          int     `json:"id"`
	CastID      int     `json:"cast_id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
}

// Credits holds the appended credits sub-resource
type Credits struct {
	Cast []CastMember `json:"cast"`
}

// MovieDetail represents a movie details response with credits appended
type MovieDetail struct {
	MovieSummary
	VoteCount int      `json:"vote_count"`
	Runtime   *int     `json:"runtime"`
	Genres    []Genre  `json:"genres"`
	Tagline   *string  `json:"tagline"`
	Overview  string   `json:"overview"`
	Homepage  *string  `json:"homepage"`
	Credits   *Credits `json:"credits"`
}

// MaxDisplayedCast is how many cast entries the detail page shows
const MaxDisplayedCast = 10

// TopCast returns at most n cast members in billing order
func (m *MovieDetail) TopCast(n int) []CastMember {
	if m.Credits == nil || n <= 0 {
		return nil
	}
	if len(m.Credits.Cast) <= n {
		return m.Credits.Cast
	}
	return m.Credits.Cast[:n]
}

// PageResult represents one page of the popular movies list
type PageResult struct {
	Results    []MovieSummary `json:"results"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

package surfline

// Response shapes of the KBYG forecast endpoints. Only the fields the widget
// reads are declared.

type tidesResponse struct {
	Data struct {
		Tides []tideEntry `json:"tides"`
	} `json:"data"`
}

type tideEntry struct {
	Timestamp *int64   `json:"timestamp"`
	Type      *string  `json:"type"`
	Height    *float64 `json:"height"`
}

type ratingResponse struct {
	Data struct {
		Rating []ratingEntry `json:"rating"`
	} `json:"data"`
}

type ratingEntry struct {
	Timestamp int64 `json:"timestamp"`
	Rating    struct {
		Key   string  `json:"key"`
		Value float64 `json:"value"`
	} `json:"rating"`
}

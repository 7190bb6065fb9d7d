package travel

// SearchQuery is the user's input captured at submit time.
type SearchQuery struct {
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Duration    int    `json:"duration"`
}

// HotelResult is a single generated hotel offer.
type HotelResult struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Rating        string `json:"rating"`
	PricePerNight int    `json:"price_per_night"`
	TotalPrice    int    `json:"total_price"`
}

// FlightResult is a single generated flight offer.
type FlightResult struct {
	ID         int    `json:"id"`
	Airline    string `json:"airline"`
	DepartTime string `json:"depart_time"`
	ArriveTime string `json:"arrive_time"`
	Price      int    `json:"price"`
}

// Results is the joined outcome of one search.
type Results struct {
	Hotels  []HotelResult  `json:"hotels"`
	Flights []FlightResult `json:"flights"`
}

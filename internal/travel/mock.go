package travel

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultDelay is the artificial latency applied to every mock call.
const DefaultDelay = 1500 * time.Millisecond

const resultsPerSearch = 3

var hotelNames = []string{
	"Grand Plaza Hotel",
	"Ocean View Resort",
	"City Center Inn",
	"The Royal Hideaway",
	"Sunset Boulevard Hotel",
	"Mountain Peak Lodge",
}

var airlines = []string{
	"SkyHigh Air",
	"Oceanic Airlines",
	"Global Wings",
	"SwiftJet",
}

// MockService generates plausible hotel and flight offers in-process.
// It stands in for a real inventory backend.
type MockService struct {
	rand  RandomSource
	delay time.Duration
}

// NewMockService constructs a MockService with a time-seeded random source.
func NewMockService(delay time.Duration) *MockService {
	return &MockService{rand: NewRandomSource(), delay: delay}
}

// NewMockServiceWithSource constructs a MockService drawing from src (used in tests).
func NewMockServiceWithSource(src RandomSource, delay time.Duration) *MockService {
	return &MockService{rand: src, delay: delay}
}

// wait sleeps for the configured delay or until ctx is done.
func (s *MockService) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// pick returns a uniformly chosen element of options.
func (s *MockService) pick(options []string) string {
	i := int(s.rand.Float64() * float64(len(options)))
	if i >= len(options) {
		i = len(options) - 1
	}
	return options[i]
}

// between returns ⌊lo + r·(hi-lo)⌋, an integer in [lo, hi).
func (s *MockService) between(lo, hi int) int {
	n := lo + int(math.Floor(s.rand.Float64()*float64(hi-lo)))
	if n >= hi {
		n = hi - 1
	}
	return n
}

// tenths formats a positive x with one fractional digit, rounding an exact
// half up (4.25 → "4.3").
func tenths(x float64) string {
	// 60 digits holds the exact binary expansion of any rating.
	s := strconv.FormatFloat(x, 'f', 60, 64)
	dot := strings.IndexByte(s, '.')

	n, _ := strconv.Atoi(s[:dot] + s[dot+1:dot+2])
	if s[dot+2] >= '5' {
		n++
	}
	return fmt.Sprintf("%d.%d", n/10, n%10)
}

// Hotels returns three hotel offers for destination priced over duration nights.
func (s *MockService) Hotels(ctx context.Context, destination string, duration int) ([]HotelResult, error) {
	if err := s.wait(ctx); err != nil {
		return nil, fmt.Errorf("generating hotels for %s: %w", destination, err)
	}

	hotels := make([]HotelResult, 0, resultsPerSearch)
	for i := range resultsPerSearch {
		name := s.pick(hotelNames)
		rating := tenths(3.5 + s.rand.Float64()*1.5)
		perNight := s.between(100, 500)

		hotels = append(hotels, HotelResult{
			ID:            i,
			Name:          name + " " + destination,
			Rating:        rating,
			PricePerNight: perNight,
			TotalPrice:    perNight * duration,
		})
	}

	return hotels, nil
}

// Flights returns three flight offers. date does not influence the schedule.
func (s *MockService) Flights(ctx context.Context, destination, _ string) ([]FlightResult, error) {
	if err := s.wait(ctx); err != nil {
		return nil, fmt.Errorf("generating flights for %s: %w", destination, err)
	}

	flights := make([]FlightResult, 0, resultsPerSearch)
	for i := range resultsPerSearch {
		airline := s.pick(airlines)
		price := s.between(200, 800)
		hour := s.between(6, 20)

		flights = append(flights, FlightResult{
			ID:         i,
			Airline:    airline,
			DepartTime: fmt.Sprintf("%d:00", hour),
			// 3h30 flight, no rollover past midnight.
			ArriveTime: fmt.Sprintf("%d:30", hour+3),
			Price:      price,
		})
	}

	return flights, nil
}

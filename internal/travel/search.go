package travel

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// hotelSource is the interface satisfied by MockService for hotel offers.
type hotelSource interface {
	Hotels(ctx context.Context, destination string, duration int) ([]HotelResult, error)
}

// flightSource is the interface satisfied by MockService for flight offers.
type flightSource interface {
	Flights(ctx context.Context, destination, date string) ([]FlightResult, error)
}

// Searcher joins the hotel and flight lookups for one query.
type Searcher struct {
	hotels  hotelSource
	flights flightSource
}

// NewSearcher constructs a Searcher backed by a single MockService.
func NewSearcher(svc *MockService) *Searcher {
	return &Searcher{hotels: svc, flights: svc}
}

// NewSearcherWithSources constructs a Searcher with injectable sources (used in tests).
func NewSearcherWithSources(h hotelSource, f flightSource) *Searcher {
	return &Searcher{hotels: h, flights: f}
}

// Search fetches hotels and flights concurrently and returns once both have
// finished. Either branch failing fails the whole search; no partial results
// are returned. The branches do not cancel each other.
func (s *Searcher) Search(ctx context.Context, q SearchQuery) (*Results, error) {
	var g errgroup.Group

	var hotels []HotelResult
	var flights []FlightResult

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("hotel fetch panicked", "recover", r)
				err = fmt.Errorf("hotel fetch panicked: %v", r)
			}
		}()
		hs, fetchErr := s.hotels.Hotels(ctx, q.Destination, q.Duration)
		if fetchErr != nil {
			return fmt.Errorf("hotel fetch: %w", fetchErr)
		}
		hotels = hs
		return nil
	})

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("flight fetch panicked", "recover", r)
				err = fmt.Errorf("flight fetch panicked: %v", r)
			}
		}()
		fs, fetchErr := s.flights.Flights(ctx, q.Destination, q.Date)
		if fetchErr != nil {
			return fmt.Errorf("flight fetch: %w", fetchErr)
		}
		flights = fs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("searching %s: %w", q.Destination, err)
	}

	return &Results{Hotels: hotels, Flights: flights}, nil
}

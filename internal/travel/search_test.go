package travel_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/travel-search/internal/travel"
)

type fakeHotels struct {
	fn func(ctx context.Context, destination string, duration int) ([]travel.HotelResult, error)
}

func (f *fakeHotels) Hotels(ctx context.Context, destination string, duration int) ([]travel.HotelResult, error) {
	return f.fn(ctx, destination, duration)
}

type fakeFlights struct {
	fn func(ctx context.Context, destination, date string) ([]travel.FlightResult, error)
}

func (f *fakeFlights) Flights(ctx context.Context, destination, date string) ([]travel.FlightResult, error) {
	return f.fn(ctx, destination, date)
}

func TestSearch_Success(t *testing.T) {
	s := travel.NewSearcher(travel.NewMockService(0))

	res, err := s.Search(context.Background(), travel.SearchQuery{Destination: "Paris", Date: "2026-10-17", Duration: 2})
	require.NoError(t, err)
	require.Len(t, res.Hotels, 3)
	require.Len(t, res.Flights, 3)
}

func TestSearch_RunsBranchesConcurrently(t *testing.T) {
	s := travel.NewSearcher(travel.NewMockService(100 * time.Millisecond))

	start := time.Now()
	_, err := s.Search(context.Background(), travel.SearchQuery{Destination: "Paris", Duration: 1})
	require.NoError(t, err)

	// Sequential calls would take at least 200ms.
	assert.Less(t, time.Since(start), 190*time.Millisecond)
}

func TestSearch_WaitsForSlowerBranch(t *testing.T) {
	var hotelsDone atomic.Bool
	h := &fakeHotels{fn: func(_ context.Context, _ string, _ int) ([]travel.HotelResult, error) {
		time.Sleep(80 * time.Millisecond)
		hotelsDone.Store(true)
		return []travel.HotelResult{{ID: 0}}, nil
	}}
	f := &fakeFlights{fn: func(_ context.Context, _, _ string) ([]travel.FlightResult, error) {
		return []travel.FlightResult{{ID: 0}}, nil
	}}

	res, err := travel.NewSearcherWithSources(h, f).Search(context.Background(), travel.SearchQuery{Destination: "Paris", Duration: 1})
	require.NoError(t, err)
	assert.True(t, hotelsDone.Load())
	assert.Len(t, res.Hotels, 1)
	assert.Len(t, res.Flights, 1)
}

func TestSearch_FlightFailure_NoPartialResults(t *testing.T) {
	boom := errors.New("flights offline")
	var hotelsCalled atomic.Bool
	h := &fakeHotels{fn: func(_ context.Context, _ string, _ int) ([]travel.HotelResult, error) {
		hotelsCalled.Store(true)
		return []travel.HotelResult{{ID: 0}}, nil
	}}
	f := &fakeFlights{fn: func(_ context.Context, _, _ string) ([]travel.FlightResult, error) {
		return nil, boom
	}}

	res, err := travel.NewSearcherWithSources(h, f).Search(context.Background(), travel.SearchQuery{Destination: "Paris", Duration: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, res)
	assert.True(t, hotelsCalled.Load(), "hotel branch still runs to completion")
}

func TestSearch_PanicBecomesError(t *testing.T) {
	h := &fakeHotels{fn: func(_ context.Context, _ string, _ int) ([]travel.HotelResult, error) {
		panic("bad fixture")
	}}
	f := &fakeFlights{fn: func(_ context.Context, _, _ string) ([]travel.FlightResult, error) {
		return nil, nil
	}}

	_, err := travel.NewSearcherWithSources(h, f).Search(context.Background(), travel.SearchQuery{Destination: "Paris", Duration: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hotel fetch panicked")
}

func TestSearch_PassesQueryFields(t *testing.T) {
	var gotDest, gotDate string
	var gotDuration int
	h := &fakeHotels{fn: func(_ context.Context, dest string, d int) ([]travel.HotelResult, error) {
		gotDuration = d
		return nil, nil
	}}
	f := &fakeFlights{fn: func(_ context.Context, dest, date string) ([]travel.FlightResult, error) {
		gotDest, gotDate = dest, date
		return nil, nil
	}}

	_, err := travel.NewSearcherWithSources(h, f).Search(context.Background(), travel.SearchQuery{Destination: "Kyoto", Date: "2026-11-02", Duration: 4})
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", gotDest)
	assert.Equal(t, "2026-11-02", gotDate)
	assert.Equal(t, 4, gotDuration)
}

func TestParseQuery(t *testing.T) {
	q, err := travel.ParseQuery("  Paris ", "2026-10-17", "2")
	require.NoError(t, err)
	assert.Equal(t, travel.SearchQuery{Destination: "Paris", Date: "2026-10-17", Duration: 2}, q)

	_, err = travel.ParseQuery("", "2026-10-17", "2")
	assert.ErrorIs(t, err, travel.ErrInvalidQuery)

	_, err = travel.ParseQuery("Paris", "", "zero")
	assert.ErrorIs(t, err, travel.ErrInvalidQuery)

	_, err = travel.ParseQuery("Paris", "", "0")
	assert.ErrorIs(t, err, travel.ErrInvalidQuery)
}

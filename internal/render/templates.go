package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/neexbeast/travel-search/internal/travel"
)

//go:embed templates/*.html templates/partials/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFiles embed.FS

// Templates renders the search page and its result cards.
type Templates struct {
	templates *template.Template
}

// New parses the embedded templates.
func New() (*Templates, error) {
	funcMap := template.FuncMap{
		"price": formatPrice,
		"stars": formatRating,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(
		templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Templates{templates: tmpl}, nil
}

// Static returns the embedded stylesheet and script assets.
func Static() (fs.FS, error) {
	return fs.Sub(staticFiles, "static")
}

// Page writes the full search page.
func (t *Templates) Page(w io.Writer, data *PageData) error {
	if err := t.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

// HotelCards renders one card per hotel.
func (t *Templates) HotelCards(hotels []travel.HotelResult) (template.HTML, error) {
	return t.fragment("hotel-cards", hotels)
}

// FlightCards renders one card per flight.
func (t *Templates) FlightCards(flights []travel.FlightResult) (template.HTML, error) {
	return t.fragment("flight-cards", flights)
}

// fragment executes a partial into a buffer so a failure never leaves half a list.
func (t *Templates) fragment(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := t.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	// Output of html/template is already escaped.
	return template.HTML(buf.String()), nil
}

// formatPrice renders a whole-dollar amount.
func formatPrice(amount int) string {
	return fmt.Sprintf("$%d", amount)
}

// formatRating renders a rating with a star prefix.
func formatRating(rating string) string {
	return "★ " + rating
}

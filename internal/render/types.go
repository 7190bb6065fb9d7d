package render

import "html/template"

// FormData holds the values shown in the search form.
type FormData struct {
	Destination string
	Date        string
	Duration    int
}

// PageData is everything the index template needs.
type PageData struct {
	Form FormData

	// Busy disables the submit button and shows the spinner.
	Busy bool

	// ShowResults reveals the results container and scrolls to it.
	ShowResults bool
	HotelCards  template.HTML
	FlightCards template.HTML

	// Alert, when set, is shown as a blocking browser alert.
	Alert string
}

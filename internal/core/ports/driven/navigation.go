package driven

// Navigator reflects the session query into a shareable location.
type Navigator interface {
	// InitialQuery returns the query parsed from the location at startup.
	InitialQuery() string

	// Replace sets the location's query, replacing the current value.
	Replace(query string)

	// Clear resets the location to its bare form.
	Clear()

	// Location returns the current shareable location.
	Location() string
}

package search

import "errors"

// ErrNoSettingsService is shown when the sort order is cycled without a
// settings service to store it.
var ErrNoSettingsService = errors.New("sort order cannot be changed: no settings service")

package tui

import "errors"

// ErrMissingSession is returned when the session coordinator is not provided.
var ErrMissingSession = errors.New("tui: session coordinator is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("tui: settings service is required")

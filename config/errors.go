package config

import "errors"

// Configuration errors.
// These errors are returned by Load, Find and File.Validate so callers can
// use errors.Is() to tell a missing file from a broken one.
var (
	// ErrConfigNotFound is returned when no configuration file exists at the
	// requested or searched locations.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrUnknownPageSize is returned for a page size name other than a4,
	// letter, legal or custom.
	ErrUnknownPageSize = errors.New("unknown page size: use a4, letter, legal or custom")

	// ErrInvalidPageSize is returned when a custom page has no positive
	// width and height.
	ErrInvalidPageSize = errors.New("invalid page size: custom width and height must be positive")

	// ErrUnknownMeasurer is returned for an unsupported text measurer name.
	ErrUnknownMeasurer = errors.New("unknown text measurer: use average, helvetica, times, courier or glyph")

	// ErrUnknownFormat is returned for an unsupported default output format.
	ErrUnknownFormat = errors.New("unknown output format: use pdf, md or json")

	// ErrUnknownFontFamily is returned for a PDF font family other than the
	// core Helvetica, Times and Courier families.
	ErrUnknownFontFamily = errors.New("unknown font family: use Helvetica, Times or Courier")

	// ErrUnknownLogLevel is returned when the log level cannot be parsed.
	ErrUnknownLogLevel = errors.New("unknown log level")
)

package feed

import (
	"errors"
	"fmt"
)

// sentinel errors matched with errors.Is against the typed errors below
var (
	ErrUnsupportedFeedType    = errors.New("unsupported feed type")
	ErrNonFeedContent         = errors.New("non-feed content")
	ErrRequiredElementMissing = errors.New("required element missing")
)

// UnsupportedFeedTypeError is returned when the root element matches no known dialect
type UnsupportedFeedTypeError struct {
	Element string // root element name, empty for a document without root
}

func (e *UnsupportedFeedTypeError) Error() string {
	if e.Element == "" {
		return "unsupported feed type, no root element"
	}
	return fmt.Sprintf("unsupported feed type, root element %q", e.Element)
}

// Is makes errors.Is(err, ErrUnsupportedFeedType) work
func (e *UnsupportedFeedTypeError) Is(target error) bool { return target == ErrUnsupportedFeedType }

// NonFeedContentError is returned for html documents. Links holds whatever feed
// links were discovered in the page, it can be empty.
type NonFeedContentError struct {
	Links []FeedLink
}

func (e *NonFeedContentError) Error() string {
	if len(e.Links) == 0 {
		return "html content detected, not a feed"
	}
	return fmt.Sprintf("html content detected, not a feed, %d feed links found", len(e.Links))
}

// Is makes errors.Is(err, ErrNonFeedContent) work
func (e *NonFeedContentError) Is(target error) bool { return target == ErrNonFeedContent }

// RequiredElementError reports a mandatory element that is absent or empty
type RequiredElementError struct {
	Dialect Dialect
	Parent  string // container element, like channel or entry
	Element string // missing element, like description or id
}

func (e *RequiredElementError) Error() string {
	return fmt.Sprintf("%s: required element %q missing in %q", e.Dialect, e.Element, e.Parent)
}

// Is makes errors.Is(err, ErrRequiredElementMissing) work
func (e *RequiredElementError) Is(target error) bool { return target == ErrRequiredElementMissing }

package rectlist

import "errors"

// Sentinel errors for RectList operations.
var (
	// ErrNoOpenInterval names the condition of closing an interval on an
	// entity with no currently open interval (Entity.Start == nil). No
	// function in this package returns it: NewRect has no error result and
	// dereferences Entity.Start and Entity.State unchecked.
	ErrNoOpenInterval = errors.New("rectlist: no open interval to close")

	// ErrUnknownRect indicates an operation referenced a start time not
	// present in Entity.Rects.
	ErrUnknownRect = errors.New("rectlist: no rectangle at that start")

	// ErrNothingToSubsume indicates Subsume was called on a rectangle with
	// neither a prev nor a next neighbor — the entity has only one
	// rectangle, and the caller should have skipped the call entirely
	// (spec §4.3's trim: "if its entity has only one rectangle, do
	// nothing").
	ErrNothingToSubsume = errors.New("rectlist: rectangle has no neighbor to subsume into")

	// ErrPartialTags is returned by VerifyTags when a rectangle's tagged
	// duration does not sum to its total duration.
	ErrPartialTags = errors.New("rectlist: rectangle has partial tag coverage")
)

package hxtodo

// SwapMode is an HTMX swap strategy.
//
// See https://htmx.org/attributes/hx-swap/ for visual examples.
type SwapMode string

const (
	// SwapOuter replaces the entire element including its tag (outerHTML).
	SwapOuter SwapMode = "outerHTML"

	// SwapInner replaces only the element's contents (innerHTML).
	// Both todo lists are always swapped this way.
	SwapInner SwapMode = "innerHTML"

	// SwapBeforeEnd appends to the end of the target's contents.
	// Flash toasts are appended to the toast container with it.
	SwapBeforeEnd SwapMode = "beforeend"

	// SwapNone discards the main response; out-of-band swaps still apply.
	// Action buttons use it because every visible change arrives out of band.
	SwapNone SwapMode = "none"
)

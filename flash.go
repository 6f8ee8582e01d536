package hxtodo

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Flash levels for toast notifications.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// flashDismissMS is how long a toast stays on screen.
const flashDismissMS = "3000"

// Flash is a one-time notification shown as a toast.
//
// Failed backend calls leave the list untouched and report through an
// error flash instead.
type Flash struct {
	Level   string
	Message string
}

// RenderFlashesOOB renders flashes as one out-of-band swap appending to
// the #toasts container. It returns "" when there is nothing to show.
func RenderFlashesOOB(flashes []Flash) string {
	if len(flashes) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div id="toasts" hx-swap-oob="`)
	sb.WriteString(string(SwapBeforeEnd))
	sb.WriteString(`">`)

	for _, f := range flashes {
		sb.WriteString(`<div class="toast toast-`)
		sb.WriteString(templ.EscapeString(f.Level))
		sb.WriteString(`" data-auto-dismiss="`)
		sb.WriteString(flashDismissMS)
		sb.WriteString(`">`)
		sb.WriteString(templ.EscapeString(f.Message))
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`</div>`)
	return sb.String()
}

// ToastContainer renders the element flashes are appended to.
func ToastContainer() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="toasts" class="toast-container"></div>`)
		return err
	})
}

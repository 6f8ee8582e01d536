package hxtodo

import (
	"context"
	"strings"
	"sync"

	"github.com/a-h/templ"
)

// Surface is what a View writes rendered markup to.
type Surface interface {
	// SetInnerHTML replaces the contents of the element matching selector.
	SetInnerHTML(ctx context.Context, selector, html string)
	// ReplaceElement replaces the element matching selector with html.
	ReplaceElement(ctx context.Context, selector, html string)
}

// Publisher pushes rendered out-of-band markup to other open pages.
// *live.Hub satisfies it.
type Publisher interface {
	Broadcast(msg []byte)
}

// Patch is one change to the page.
type Patch struct {
	Selector string
	Swap     SwapMode
	HTML     string
}

// OOB renders the patch as an htmx out-of-band swap.
//
// Inner swaps are wrapped in a div whose children replace the target's
// contents. Outer swaps carry the hx-swap-oob attribute on the
// replacement element itself.
func (p Patch) OOB() string {
	attr := ` hx-swap-oob="` + string(p.Swap) + ":" + templ.EscapeString(p.Selector) + `"`
	if p.Swap == SwapOuter && strings.HasPrefix(p.HTML, "<") {
		if i := strings.IndexAny(p.HTML, " />"); i > 1 {
			return p.HTML[:i] + attr + p.HTML[i:]
		}
	}
	return "<div" + attr + ">" + p.HTML + "</div>"
}

// Recorder collects the patches made while serving one request.
type Recorder struct {
	mu      sync.Mutex
	patches []Patch
}

type recorderKey struct{}

// WithRecorder returns a context carrying a fresh Recorder.
func WithRecorder(ctx context.Context) (context.Context, *Recorder) {
	rec := &Recorder{}
	return context.WithValue(ctx, recorderKey{}, rec), rec
}

// RecorderFrom returns the Recorder carried by ctx, or nil.
func RecorderFrom(ctx context.Context) *Recorder {
	rec, _ := ctx.Value(recorderKey{}).(*Recorder)
	return rec
}

// Record appends p. A later patch to the same selector supersedes the
// earlier one.
func (r *Recorder) Record(p Patch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.patches {
		if cur.Selector == p.Selector && cur.Swap == p.Swap {
			r.patches = append(r.patches[:i], r.patches[i+1:]...)
			break
		}
	}
	r.patches = append(r.patches, p)
}

// Patches returns a copy of the recorded patches in order.
func (r *Recorder) Patches() []Patch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Patch(nil), r.patches...)
}

// Render concatenates the recorded patches as out-of-band swaps.
func (r *Recorder) Render() string {
	var sb strings.Builder
	for _, p := range r.Patches() {
		sb.WriteString(p.OOB())
	}
	return sb.String()
}

// Document is the Surface the page is served through.
//
// It records every patch into the request's Recorder and publishes
// container updates to other pages. Element replacements only concern the
// page that made the request and are not published. Full page loads render
// from the State, not from the Document.
type Document struct {
	pub Publisher
}

// NewDocument creates a document. pub may be nil.
func NewDocument(pub Publisher) *Document {
	return &Document{pub: pub}
}

// SetInnerHTML implements Surface.
func (d *Document) SetInnerHTML(ctx context.Context, selector, html string) {
	p := Patch{Selector: selector, Swap: SwapInner, HTML: html}
	if rec := RecorderFrom(ctx); rec != nil {
		rec.Record(p)
	}
	if d.pub != nil {
		d.pub.Broadcast([]byte(p.OOB()))
	}
}

// ReplaceElement implements Surface.
func (d *Document) ReplaceElement(ctx context.Context, selector, html string) {
	if rec := RecorderFrom(ctx); rec != nil {
		rec.Record(Patch{Selector: selector, Swap: SwapOuter, HTML: html})
	}
}

package hxtodo

import (
	"context"
	"strings"
	"sync"
	"testing"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []string
}

func (p *recordingPublisher) Broadcast(msg []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, string(msg))
}

func (p *recordingPublisher) messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.msgs...)
}

func TestPatchOOB(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
		want  string
	}{
		{
			name:  "inner",
			patch: Patch{Selector: ".pending-list", Swap: SwapInner, HTML: "<li>a</li>"},
			want:  `<div hx-swap-oob="innerHTML:.pending-list"><li>a</li></div>`,
		},
		{
			name:  "outer",
			patch: Patch{Selector: ".input", Swap: SwapOuter, HTML: `<input class="input" value="">`},
			want:  `<input hx-swap-oob="outerHTML:.input" class="input" value="">`,
		},
		{
			name:  "outer bare tag",
			patch: Patch{Selector: "#x", Swap: SwapOuter, HTML: `<hr>`},
			want:  `<hr hx-swap-oob="outerHTML:#x">`,
		},
		{
			name:  "outer text falls back to wrapper",
			patch: Patch{Selector: "#x", Swap: SwapOuter, HTML: "plain"},
			want:  `<div hx-swap-oob="outerHTML:#x">plain</div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.patch.OOB(); got != tt.want {
				t.Errorf("OOB() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecorderFromEmptyContext(t *testing.T) {
	if rec := RecorderFrom(context.Background()); rec != nil {
		t.Errorf("RecorderFrom(background) = %v, want nil", rec)
	}
}

func TestRecorderSupersedes(t *testing.T) {
	ctx, rec := WithRecorder(context.Background())
	if RecorderFrom(ctx) != rec {
		t.Fatal("RecorderFrom did not return the recorder")
	}

	rec.Record(Patch{Selector: ".a", Swap: SwapInner, HTML: "1"})
	rec.Record(Patch{Selector: ".b", Swap: SwapInner, HTML: "2"})
	rec.Record(Patch{Selector: ".a", Swap: SwapInner, HTML: "3"})

	got := rec.Patches()
	if len(got) != 2 {
		t.Fatalf("len(Patches()) = %d, want 2", len(got))
	}
	if got[0].Selector != ".b" || got[1].HTML != "3" {
		t.Errorf("Patches() = %+v", got)
	}
	if r := rec.Render(); !strings.HasPrefix(r, `<div hx-swap-oob="innerHTML:.b">2</div>`) {
		t.Errorf("Render() = %q", r)
	}
}

func TestDocumentSetInnerHTML(t *testing.T) {
	pub := &recordingPublisher{}
	doc := NewDocument(pub)
	ctx, rec := WithRecorder(context.Background())

	doc.SetInnerHTML(ctx, ".pending-list", "<li>x</li>")

	if p := rec.Patches(); len(p) != 1 || p[0].Swap != SwapInner || p[0].HTML != "<li>x</li>" {
		t.Errorf("Patches() = %+v", p)
	}
	msgs := pub.messages()
	if len(msgs) != 1 || msgs[0] != `<div hx-swap-oob="innerHTML:.pending-list"><li>x</li></div>` {
		t.Errorf("published %q", msgs)
	}
}

func TestDocumentReplaceElementStaysLocal(t *testing.T) {
	pub := &recordingPublisher{}
	doc := NewDocument(pub)
	ctx, rec := WithRecorder(context.Background())

	doc.ReplaceElement(ctx, ".input", `<input class="input">`)

	if len(pub.messages()) != 0 {
		t.Error("element replacement should not be published")
	}
	if p := rec.Patches(); len(p) != 1 || p[0].Swap != SwapOuter {
		t.Errorf("Patches() = %+v", p)
	}
}

func TestDocumentWithoutRecorderOrPublisher(t *testing.T) {
	doc := NewDocument(nil)
	doc.SetInnerHTML(context.Background(), ".completed-list", "done")
	doc.ReplaceElement(context.Background(), ".input", "<input>")

	ctx, rec := WithRecorder(context.Background())
	doc.SetInnerHTML(ctx, ".completed-list", "done")
	if p := rec.Patches(); len(p) != 1 {
		t.Errorf("Patches() = %+v, want one patch without a publisher", p)
	}
}

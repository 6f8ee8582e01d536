package hxtodo

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRenderFlashesOOBEmpty(t *testing.T) {
	if got := RenderFlashesOOB(nil); got != "" {
		t.Errorf("RenderFlashesOOB(nil) = %q, want empty string", got)
	}
	if got := RenderFlashesOOB([]Flash{}); got != "" {
		t.Errorf("RenderFlashesOOB([]) = %q, want empty string", got)
	}
}

func TestRenderFlashesOOB(t *testing.T) {
	result := RenderFlashesOOB([]Flash{
		{Level: FlashError, Message: "Could not reach the backend"},
		{Level: FlashInfo, Message: "Second"},
	})

	if strings.Count(result, `id="toasts"`) != 1 {
		t.Error("Should have exactly one toasts container")
	}
	if !strings.Contains(result, `hx-swap-oob="beforeend"`) {
		t.Error(`Missing hx-swap-oob="beforeend"`)
	}
	if strings.Count(result, `class="toast `) != 2 {
		t.Errorf("Should have two toast elements: %s", result)
	}
	if !strings.Contains(result, `class="toast toast-error" data-auto-dismiss="3000">Could not reach the backend</div>`) {
		t.Errorf("Missing error toast: %s", result)
	}
	if strings.Index(result, "Could not") > strings.Index(result, "Second") {
		t.Error("Toasts should keep their order")
	}
}

func TestRenderFlashesOOBEscapes(t *testing.T) {
	result := RenderFlashesOOB([]Flash{{Level: `x" onclick="y`, Message: "<script>alert(1)</script>"}})

	if strings.Contains(result, "<script>") {
		t.Errorf("message not escaped: %s", result)
	}
	if strings.Contains(result, `onclick="y`) {
		t.Errorf("level not escaped: %s", result)
	}
}

func TestToastContainer(t *testing.T) {
	var buf bytes.Buffer
	if err := ToastContainer().Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != `<div id="toasts" class="toast-container"></div>` {
		t.Errorf("ToastContainer() = %q", buf.String())
	}
}

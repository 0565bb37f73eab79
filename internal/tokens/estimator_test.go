package tokens

import "testing"

func TestEstimatePromptGrowsWithInput(t *testing.T) {
	e := NewEstimator()

	short := e.EstimatePrompt("gpt-4o", "You produce strict JSON.", "Generate a document.")
	long := e.EstimatePrompt("gpt-4o", "You produce strict JSON.",
		"Generate a document about heat diffusion in a cooling fin with five scenarios and a full verification strategy.")

	if short <= 0 {
		t.Errorf("short estimate = %d, want > 0", short)
	}
	if long <= short {
		t.Errorf("longer prompt estimated at %d tokens, shorter at %d", long, short)
	}
}

func TestEstimatePromptIncludesMessageOverhead(t *testing.T) {
	e := NewEstimator()
	got := e.EstimatePrompt("gpt-4o", "", "")
	want := assistantPriming + 2*(tokensPerMessage+tokensPerRole)
	if got != want {
		t.Errorf("empty prompt estimate = %d, want %d", got, want)
	}
}

func TestEstimatePromptUnknownModelStillEstimates(t *testing.T) {
	e := NewEstimator()
	if got := e.EstimatePrompt("claude-3-5-sonnet-20241022", "system", "user prompt text"); got <= 0 {
		t.Errorf("estimate = %d, want > 0", got)
	}
}

func TestCodecCacheReuse(t *testing.T) {
	e := NewEstimator()
	e.EstimatePrompt("gpt-4o", "a", "b")
	e.EstimatePrompt("o3-mini", "a", "b")

	if len(e.cache) != 1 {
		t.Errorf("cache size = %d, want 1 shared O200k codec", len(e.cache))
	}
}

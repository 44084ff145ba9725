package translate

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name      string
		err       error
		kind      Kind
		retryable bool
	}{
		{"transport", TransportError("translate", base), KindTransport, true},
		{"client", ClientError("translate", base), KindClient, false},
		{"undetectable", UndetectableError("detect", nil), KindUndetectable, false},
		{"input", InputError("translate", base), KindInput, false},
		{"exhausted", &Error{Kind: KindExhausted, Op: "translate", Attempts: 3, Err: base}, KindExhausted, false},
		{"wrapped transport", fmt.Errorf("call: %w", TransportError("detect", base)), KindTransport, true},
		{"plain", base, KindUnknown, true},
		{"context", context.Canceled, KindUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.kind {
				t.Fatalf("KindOf = %v, want %v", got, tt.kind)
			}
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Fatalf("IsRetryable = %v, want %v", got, tt.retryable)
			}
		})
	}
	if IsRetryable(nil) {
		t.Fatal("nil error must not be retryable")
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	base := errors.New("503 service unavailable")
	err := &Error{Kind: KindExhausted, Op: "translate", Attempts: 3, Err: base}

	want := "translate: exhausted after 3 attempts: 503 service unavailable"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, base) {
		t.Fatal("errors.Is should see the wrapped error")
	}
	if !errors.Is(UndetectableError("detect", nil), ErrUndefinedLanguage) {
		t.Fatal("undetectable error should wrap ErrUndefinedLanguage")
	}
}

func TestPassThrough(t *testing.T) {
	base := errors.New("status 400: Text too long")
	if !PassThrough(InputError("translate", base)) {
		t.Fatal("input errors pass the text through")
	}
	if !PassThrough(UndetectableError("detect", nil)) {
		t.Fatal("undetectable errors pass the text through")
	}
	if PassThrough(ClientError("translate", base)) {
		t.Fatal("client errors are surfaced")
	}
	if PassThrough(base) {
		t.Fatal("unclassified errors are surfaced")
	}
}

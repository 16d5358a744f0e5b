package util

import (
	"strconv"
	"testing"
)

func TestGenerateNumericOTPRange(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 5000; i++ {
		code, err := GenerateNumericOTP()
		if err != nil {
			t.Fatalf("GenerateNumericOTP returned error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 characters, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("expected numeric code, got %q", code)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 4000 {
		t.Fatalf("expected codes to be spread out, only %d distinct", len(seen))
	}
}

package booking

import (
	"context"
	"errors"
	"testing"
)

func TestRandomCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := randomCode()
		if err != nil {
			t.Fatalf("randomCode: %v", err)
		}
		if !codePattern.MatchString(code) {
			t.Fatalf("code %q does not match [A-Z0-9]{8}", code)
		}
	}
}

func TestGenerateConfirmationCodeUniqueness(t *testing.T) {
	seen := make(map[string]bool, 10000)
	exists := func(_ context.Context, code string) (bool, error) {
		return seen[code], nil
	}
	for i := 0; i < 10000; i++ {
		code, err := generateConfirmationCode(context.Background(), exists)
		if err != nil {
			t.Fatalf("generateConfirmationCode: %v", err)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q handed out", code)
		}
		seen[code] = true
	}
}

func TestGenerateConfirmationCodeRetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(_ context.Context, _ string) (bool, error) {
		calls++
		return calls <= 2, nil // first two draws collide
	}
	code, err := generateConfirmationCode(context.Background(), exists)
	if err != nil {
		t.Fatalf("generateConfirmationCode: %v", err)
	}
	if calls != 3 {
		t.Errorf("existence checks = %d, want 3", calls)
	}
	if !codePattern.MatchString(code) {
		t.Errorf("code %q does not match [A-Z0-9]{8}", code)
	}
}

func TestGenerateConfirmationCodeHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	alwaysTaken := func(context.Context, string) (bool, error) { return true, nil }
	if _, err := generateConfirmationCode(ctx, alwaysTaken); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

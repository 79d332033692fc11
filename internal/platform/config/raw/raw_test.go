package raw

import "testing"

func TestRawGetters(t *testing.T) {
	c := New().Prefix("LOG_")
	t.Setenv("LOG_LEVEL", " debug ")
	t.Setenv("LOG_CALLER", "YES")

	if got := c.Get("LEVEL", "info"); got != "debug" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("MISSING", "info"); got != "info" {
		t.Fatalf("Get default = %q", got)
	}
	if !c.GetBool("CALLER", false) || c.GetBool("MISSING", false) {
		t.Fatalf("GetBool mismatch")
	}
	if c.Prefix("X_").prefix != "LOG_X_" {
		t.Fatalf("prefix composition")
	}
}

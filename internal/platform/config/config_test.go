package config

import (
	"slices"
	"testing"
	"time"

	kit "pushverify/internal/platform/testkit"
)

func TestPrefixNesting(t *testing.T) {
	c := New().Prefix("SERVICE_").Prefix("PGSQL_")
	if got := c.key("DBURL"); got != "SERVICE_PGSQL_DBURL" {
		t.Fatalf("key() = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("GIT_")
	t.Setenv("GIT_SERVERNAME", "  git.example.com ")
	if got := c.MustString("SERVERNAME"); got != "git.example.com" {
		t.Fatalf("MustString = %q", got)
	}
	t.Setenv("GIT_SERVERNAME", "   ")
	kit.MustPanic(t, func() { c.MustString("SERVERNAME") })
}

func TestMayScalars(t *testing.T) {
	c := New().Prefix("PV_")
	t.Setenv("PV_N", "12")
	t.Setenv("PV_BAD_N", "twelve")
	t.Setenv("PV_B", "true")
	t.Setenv("PV_BAD_B", "maybe")
	t.Setenv("PV_D", "250ms")
	t.Setenv("PV_BAD_D", "soon")

	if c.MayInt("N", 1) != 12 || c.MayInt("BAD_N", 1) != 1 || c.MayInt("UNSET", 7) != 7 {
		t.Fatalf("MayInt mismatch")
	}
	if !c.MayBool("B", false) || c.MayBool("BAD_B", false) {
		t.Fatalf("MayBool mismatch")
	}
	if c.MayDuration("D", time.Second) != 250*time.Millisecond || c.MayDuration("BAD_D", time.Second) != time.Second {
		t.Fatalf("MayDuration mismatch")
	}
	if c.MayString("UNSET", "dflt") != "dflt" {
		t.Fatalf("MayString default")
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("GIT_")
	t.Setenv("GIT_EXCLUDE_FROM_VERIFICATION", " ops , ,release-tools,")
	got := c.MayCSV("EXCLUDE_FROM_VERIFICATION", nil)
	if !slices.Equal(got, []string{"ops", "release-tools"}) {
		t.Fatalf("MayCSV = %v", got)
	}
	t.Setenv("GIT_EXCLUDE_FROM_VERIFICATION", " , ")
	if got := c.MayCSV("EXCLUDE_FROM_VERIFICATION", []string{"x"}); !slices.Equal(got, []string{"x"}) {
		t.Fatalf("all blank should fall back, got %v", got)
	}
}

func TestMayPort(t *testing.T) {
	c := New().Prefix("CORE_API_")
	if got := c.MayPort("PORT", 4000); got != ":4000" {
		t.Fatalf("default port = %q", got)
	}
	t.Setenv("CORE_API_PORT", "8443")
	if got := c.MayPort("PORT", 4000); got != ":8443" {
		t.Fatalf("port = %q", got)
	}
	t.Setenv("CORE_API_PORT", "70000")
	kit.MustPanic(t, func() { c.MayPort("PORT", 4000) })
}

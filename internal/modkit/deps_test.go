package modkit

import (
	"testing"

	"pushverify/internal/platform/config"
	"pushverify/internal/platform/store"
)

func TestFromStore(t *testing.T) {
	cfg := config.New().Prefix("GIT_")
	if d := FromStore(nil, cfg); d.PG != nil || d.CH != nil {
		t.Fatalf("nil store should leave backends nil: %+v", d)
	}
	d := FromStore(&store.Store{}, cfg)
	if d.PG != nil || d.CH != nil {
		t.Fatalf("disabled backends should stay nil")
	}
}

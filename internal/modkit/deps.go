// Package modkit provides module wiring and core deps
package modkit

import (
	"pushverify/internal/modkit/repokit"
	"pushverify/internal/platform/config"
	"pushverify/internal/platform/logger"
	"pushverify/internal/platform/store"
)

// Deps holds core dependencies passed to modules
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// FromStore builds Deps from an opened store; disabled backends stay nil
func FromStore(s *store.Store, cfg config.Conf) Deps {
	d := Deps{Cfg: cfg}
	if s == nil {
		return d
	}
	d.Log = s.Log
	d.PG = s.PG
	d.CH = s.CH
	return d
}

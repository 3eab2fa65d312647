package modkit

import (
	"xfriends/internal/platform/cache"
	"xfriends/internal/platform/config"
	"xfriends/internal/platform/logger"
	"xfriends/internal/platform/store"
	ptime "xfriends/internal/platform/time"
)

// Deps holds core dependencies passed to modules
// this is wiring only; domain services travel as module ports
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	Store *store.Store
	Cache *cache.Cache
	Clock ptime.Clock
}

// Now reads the injected clock, falling back to the system clock
func (d Deps) Now() ptime.Clock { return ptime.Or(d.Clock) }

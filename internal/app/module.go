package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/phoneotp/internal/phoneotp"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.phoneotp.enabled") {
		if err := phoneotp.New(phoneotp.Dependency{
			CacheConn:  a.cacheConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Scheduler:  a.scheduler,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			HMAC:       a.hmac,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module phoneotp", "error", err)
			os.Exit(1)
		}
	}
}

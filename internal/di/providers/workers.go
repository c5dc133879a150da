package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/ofertaapp/oferta-server/internal/logger"
	"github.com/ofertaapp/oferta-server/internal/service"
)

// TempImageSweepJob periodically removes abandoned temporary uploads.
// Publishing an offer against an existing canonical offer leaves the caller's
// staged image behind in the temporary namespace, so something has to pick up
// the trash.
type TempImageSweepJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *TempImageSweepJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideTempImageSweepJob provides the periodic temporary image cleanup job.
func ProvideTempImageSweepJob(i do.Injector) (*TempImageSweepJob, error) {
	services := do.MustInvoke[*service.Services](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		// Initial sweep on startup
		if count, err := services.Images.SweepTemp(ctx); err != nil {
			log.Warn("Initial temp image sweep failed", "error", err)
		} else if count > 0 {
			log.Info("Initial temp image sweep completed", "deleted", count)
		}

		for {
			select {
			case <-ticker.C:
				if count, err := services.Images.SweepTemp(ctx); err != nil {
					log.Warn("Temp image sweep failed", "error", err)
				} else if count > 0 {
					log.Info("Temp image sweep completed", "deleted", count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Temp image sweep job started", "temp_ttl", services.Images.TempTTL())

	return &TempImageSweepJob{cancel: cancel}, nil
}

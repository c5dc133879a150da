package providers

import (
	"github.com/samber/do/v2"

	"github.com/ofertaapp/oferta-server/internal/auth"
	"github.com/ofertaapp/oferta-server/internal/config"
	"github.com/ofertaapp/oferta-server/internal/logger"
	"github.com/ofertaapp/oferta-server/internal/objstore"
	"github.com/ofertaapp/oferta-server/internal/service"
)

// ProvideServices provides the business service layer.
func ProvideServices(i do.Injector) (*service.Services, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	objects := do.MustInvoke[*objstore.FS](i)
	tokens := do.MustInvoke[*auth.TokenService](i)

	return service.New(storeHandle.Store, objects, tokens, cfg, log.Logger), nil
}

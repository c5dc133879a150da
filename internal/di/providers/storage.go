package providers

import (
	"encoding/hex"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/ofertaapp/oferta-server/internal/config"
	"github.com/ofertaapp/oferta-server/internal/logger"
	"github.com/ofertaapp/oferta-server/internal/objstore"
)

// uploadPath is the route prefix signed upload URLs point at.
const uploadPath = "/api/v1/uploads"

// ProvideObjectStore provides the filesystem-backed image object store.
// Signed upload URLs are minted with the same persisted secret that signs
// access tokens.
func ProvideObjectStore(i do.Injector) (*objstore.FS, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	authKey := do.MustInvoke[AuthKey](i)

	signKey, err := hex.DecodeString(string(authKey))
	if err != nil {
		return nil, fmt.Errorf("decoding upload signing key: %w", err)
	}

	objects, err := objstore.NewFS(cfg.Storage.BasePath, cfg.Server.PublicURL, uploadPath, signKey)
	if err != nil {
		return nil, err
	}

	log.Info("Object storage initialized",
		"path", cfg.Storage.BasePath,
		"temp_prefix", cfg.Storage.TempPrefix,
	)

	return objects, nil
}

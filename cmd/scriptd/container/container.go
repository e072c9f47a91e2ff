package container

import (
	"github.com/callready/scriptd/cmd/scriptd/catalog"
	"github.com/callready/scriptd/cmd/scriptd/repository"
	"github.com/callready/scriptd/cmd/scriptd/service"
	"github.com/callready/scriptd/common/bootstrap"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	Components *bootstrap.Components

	// Repositories
	ScriptRepo *repository.ScriptRepository

	// Domain
	Catalog       *catalog.Catalog
	ScriptService *service.ScriptService
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	scriptRepo := repository.NewScriptRepository(components.Store)

	// The template catalog is built once at startup and injected; there is
	// no package-level template state.
	cat := catalog.Default()

	scriptService := service.NewScriptService(
		scriptRepo,
		cat,
		components.Cache,
		components.Logger,
		components.Config.Cache.AnalyticsTTL,
	)

	return &Container{
		Components:    components,
		ScriptRepo:    scriptRepo,
		Catalog:       cat,
		ScriptService: scriptService,
	}, nil
}

package services

import (
	"os"

	"github.com/rs/zerolog/log"

	appctx "github.com/requiem-ai/modelhub/context"
	"github.com/requiem-ai/modelhub/llm"
	"github.com/requiem-ai/modelhub/manager"
)

const HUB_SVC = "hub_svc"

// HubService owns the model manager. It registers the built-in backend
// types and brings up every instance from the setup service's config.
type HubService struct {
	appctx.DefaultService

	Hub *manager.Manager

	setup *SetupService
}

func (svc HubService) Id() string {
	return HUB_SVC
}

func (svc *HubService) Configure(ctx *appctx.Context) error {
	if err := svc.DefaultService.Configure(ctx); err != nil {
		return err
	}

	svc.Hub = manager.New()

	builtins := map[string]llm.Constructor{
		llm.OpenRouterName: llm.NewOpenRouterBackend,
		llm.TogetherName:   llm.NewTogetherBackend,
		llm.EchoName:       llm.NewEchoBackend,
	}
	for name, ctor := range builtins {
		if err := svc.Hub.RegisterBackendType(name, ctor); err != nil {
			return err
		}
	}

	return nil
}

func (svc *HubService) Start() error {
	svc.setup = svc.Service(SETUP_SVC).(*SetupService)

	for _, spec := range svc.setup.Models() {
		cfg := llm.NewConfig()
		for k, v := range spec.Params {
			cfg.Set(k, v)
		}
		if spec.Model != "" {
			cfg.Set("model", spec.Model)
		}
		if spec.APIKeyEnv != "" {
			cfg.Set("api_key", os.Getenv(spec.APIKeyEnv))
		}

		if err := svc.Hub.Instantiate(spec.ID, spec.Type, cfg); err != nil {
			return err
		}
	}

	log.Info().
		Strs("types", svc.Hub.BackendTypes()).
		Strs("instances", svc.Hub.Instances()).
		Msg("hub ready")

	return nil
}

func (svc *HubService) Shutdown() {
	if svc.Hub == nil {
		return
	}
	for _, id := range svc.Hub.Instances() {
		svc.Hub.Remove(id)
	}
}

package context

import (
	context2 "context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// Context is a small service wrapper that handles the startup/shutdown of
// the hub's services. Services start in the order they were registered and
// shut down in reverse. Provides cross-service access while keeping the
// services themselves separate.
type Context struct {
	startOrder map[int]string
	serviceMap map[string]Service
}

// NewCtx creates a new context containing the given services.
func NewCtx(svcs ...Service) (*Context, error) {
	ctx := Context{
		startOrder: make(map[int]string, len(svcs)),
		serviceMap: make(map[string]Service, len(svcs)),
	}

	for _, s := range svcs {
		if err := ctx.Register(s); err != nil {
			return nil, err
		}
	}

	return &ctx, nil
}

// Register a new service into the context and preserve the order passed.
func (ctx *Context) Register(service Service) error {
	if _, ok := ctx.serviceMap[service.Id()]; ok {
		return fmt.Errorf("service %s already registered", service.Id())
	}

	currLen := len(ctx.serviceMap)

	ctx.startOrder[currLen] = service.Id()
	ctx.serviceMap[service.Id()] = service

	return nil
}

// Service returns the registered service with the given id, or nil.
// Callers cast to the concrete type.
func (ctx *Context) Service(id string) Service {
	return ctx.serviceMap[id]
}

// Run starts the context. Every service is configured first; if any fail
// there the context bails out before anything starts. Then every service is
// started in registration order. SIGINT/SIGTERM trigger reverse-order
// shutdown.
func (ctx *Context) Run() error {
	_, cancel := context2.WithCancel(context2.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received signal. Shutting down")

		for i := len(ctx.startOrder) - 1; i >= 0; i-- {
			svcId := ctx.startOrder[i]
			log.Info().Str("service", svcId).Msg("Shutting down")
			ctx.serviceMap[svcId].Shutdown()
		}
		cancel()
	}()

	for i := 0; i < len(ctx.startOrder); i++ {
		svcId := ctx.startOrder[i]

		if err := ctx.Configure(ctx.serviceMap[svcId]); err != nil {
			log.Error().Err(err).Str("service", svcId).Msg("Context Configure Error")
			return err
		}
	}

	for i := 0; i < len(ctx.startOrder); i++ {
		svcId := ctx.startOrder[i]

		if err := ctx.Start(ctx.serviceMap[svcId]); err != nil {
			log.Error().Err(err).Str("service", svcId).Msg("Context Start Error")
			return err
		}
	}

	return nil
}

// Configure the given service.
func (ctx *Context) Configure(svc Service) error {
	log.Info().Str("service", svc.Id()).Msg("Context Configure")

	return svc.Configure(ctx)
}

// Start the given service.
func (ctx *Context) Start(svc Service) error {
	log.Info().Str("service", svc.Id()).Msg("Context Start")

	return svc.Start()
}

func (ctx *Context) Services() []string {
	var keys []string
	for k := range ctx.serviceMap {
		keys = append(keys, k)
	}

	return keys
}

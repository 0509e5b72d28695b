package context

// Service is the unit the container manages. Configure runs for every
// service before any Start; Shutdown runs in reverse start order.
type Service interface {
	Id() string
	Configure(ctx *Context) error
	Start() error
	Shutdown()
}

// DefaultService supplies no-op lifecycle methods and sibling lookup.
// Embed it and override what the service actually needs.
type DefaultService struct {
	ctx *Context
}

func (s *DefaultService) Configure(ctx *Context) error {
	s.ctx = ctx
	return nil
}

func (s *DefaultService) Start() error {
	return nil
}

func (s *DefaultService) Shutdown() {}

// Service looks up a sibling service by id. The caller casts to the
// concrete type, e.g. svc.Service(HUB_SVC).(*HubService).
func (s *DefaultService) Service(id string) Service {
	return s.ctx.Service(id)
}

package loginmethod

import (
	"context"
	"time"

	"github.com/hashicorp/go-metrics"
	"github.com/stephnangue/lcadmin/api"
	"github.com/stephnangue/lcadmin/logger"
)

// LoginMethodStore is the part of the platform that stores login method
// records. *api.LoginMethods satisfies it.
type LoginMethodStore interface {
	ReadWithContext(ctx context.Context, name string) (*api.LoginMethod, error)
	CreateWithContext(ctx context.Context, input *api.LoginMethodInput) (*api.LoginMethodOutput, error)
	UpdateWithContext(ctx context.Context, name string, input *api.LoginMethodInput) (*api.LoginMethodOutput, error)
}

// ClientRegistry lists the external OAuth2 clients registered on the
// platform. *api.OAuth2Clients satisfies it.
type ClientRegistry interface {
	ListWithContext(ctx context.Context) ([]*api.OAuth2Client, error)
}

// Operation is the mutation a plan commits with.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
)

// State names the steps of one apply, in order.
type State string

const (
	StateStart            State = "start"
	StateKindsResolved    State = "kinds_resolved"
	StateExistenceProbed  State = "existence_probed"
	StateSourceMapped     State = "source_mapped"
	StateReferenceChecked State = "reference_checked"
	StateTargetMapped     State = "target_mapped"
	StateCommitted        State = "committed"
)

// Plan is a fully resolved login method, ready to be committed.
type Plan struct {
	Operation Operation
	Input     *api.LoginMethodInput

	// Existing is the stored record the plan updates, nil on create.
	Existing *api.LoginMethod
}

// Engine normalizes login method requests and commits them to the platform.
// It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	store    LoginMethodStore
	registry ClientRegistry
	logger   logger.Logger
	metrics  *metrics.Metrics
	strict   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The engine logs under the "loginmethod"
// subsystem.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l.WithSubsystem("loginmethod")
		}
	}
}

// WithMetrics sets the metrics sink. The global one is used otherwise.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithStrictProbe makes existence probe failures other than "not found"
// abort the apply with a *RemoteError instead of being treated as absence.
func WithStrictProbe() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// NewEngine returns an Engine committing to store and validating client
// references against registry.
func NewEngine(store LoginMethodStore, registry ClientRegistry, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		registry: registry,
		logger:   logger.NewNopLogger(),
		metrics:  metrics.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewEngineFromClient returns an Engine backed by the platform API.
func NewEngineFromClient(c *api.Client, opts ...Option) *Engine {
	return NewEngine(c.LoginMethods(), c.OAuth2Clients(), opts...)
}

// Plan runs every step of an apply except the final create or update.
func (e *Engine) Plan(ctx context.Context, req *Request) (*Plan, error) {
	if req == nil || req.Name == "" {
		return nil, &MissingFieldError{Fields: []string{"name"}}
	}
	log := e.logger.WithFields(
		logger.String("name", req.Name),
		logger.String("family", req.Family.String()),
	)
	log.Debug("apply", logger.String("state", string(StateStart)))

	mapper, err := MapperFor(req.Family)
	if err != nil {
		return nil, err
	}

	sourceKind := req.SourceKind
	if sourceKind == "" {
		sourceKind = mapper.DefaultSourceKind()
	}
	targetKind := req.TargetKind
	if targetKind == "" {
		targetKind = TargetDefault
	}
	log.Debug("apply",
		logger.String("state", string(StateKindsResolved)),
		logger.String("source_kind", string(sourceKind)),
		logger.String("target_kind", string(targetKind)),
	)

	existing, err := e.probe(ctx, log, req.Name)
	if err != nil {
		return nil, err
	}
	log.Debug("apply",
		logger.String("state", string(StateExistenceProbed)),
		logger.Bool("exists", existing != nil),
	)

	params := &req.Params
	source, err := mapper.MapSource(sourceKind, params, existing)
	if err != nil {
		return nil, err
	}
	log.Debug("apply",
		logger.String("state", string(StateSourceMapped)),
		logger.Int("source", source.Code),
	)

	if mapper.Family() == FamilyDelegatedAuth && usesExternalClient(sourceKind) {
		if err := e.checkReference(ctx, params.OAuth2ClientName); err != nil {
			return nil, err
		}
		log.Debug("apply",
			logger.String("state", string(StateReferenceChecked)),
			logger.String("client", params.OAuth2ClientName),
		)
	}

	target, err := mapper.MapTarget(targetKind, params)
	if err != nil {
		return nil, err
	}
	log.Debug("apply",
		logger.String("state", string(StateTargetMapped)),
		logger.Int("target", target.Code),
	)

	plan := &Plan{
		Operation: OperationCreate,
		Existing:  existing,
		Input: &api.LoginMethodInput{
			Name:                req.Name,
			Description:         req.Description,
			LoginMethodType:     source.Family.String(),
			Source:              source.Code,
			Target:              target.Code,
			SourceConfiguration: source.Config,
			TargetConfiguration: target.Config,
		},
	}
	if existing != nil {
		plan.Operation = OperationUpdate
	}
	return plan, nil
}

// Apply resolves req and creates or updates the login method on the
// platform. It returns the platform's message unchanged. Nothing is
// submitted unless every step before the commit succeeded.
func (e *Engine) Apply(ctx context.Context, req *Request) (string, error) {
	defer e.metrics.MeasureSince([]string{"loginmethod", "apply_time"}, time.Now())

	msg, op, err := e.apply(ctx, req)
	family := ""
	if req != nil {
		family = req.Family.String()
	}
	if err != nil {
		e.metrics.IncrCounterWithLabels([]string{"loginmethod", "error"}, 1, []metrics.Label{
			{Name: "family", Value: family},
			{Name: "kind", Value: errorKind(err)},
		})
		return "", err
	}
	e.metrics.IncrCounterWithLabels([]string{"loginmethod", "apply"}, 1, []metrics.Label{
		{Name: "family", Value: family},
		{Name: "operation", Value: string(op)},
	})
	return msg, nil
}

func (e *Engine) apply(ctx context.Context, req *Request) (string, Operation, error) {
	plan, err := e.Plan(ctx, req)
	if err != nil {
		return "", "", err
	}

	var out *api.LoginMethodOutput
	switch plan.Operation {
	case OperationUpdate:
		out, err = e.store.UpdateWithContext(ctx, req.Name, plan.Input)
	default:
		out, err = e.store.CreateWithContext(ctx, plan.Input)
	}
	if err != nil {
		return "", plan.Operation, remote(string(plan.Operation), err)
	}

	e.logger.Debug("apply",
		logger.String("name", req.Name),
		logger.String("state", string(StateCommitted)),
		logger.String("operation", string(plan.Operation)),
	)

	if out == nil {
		return "", plan.Operation, nil
	}
	return out.Message, plan.Operation, nil
}

// probe fetches the stored record. Every failure counts as absence unless
// the engine is strict, in which case only a 404 does.
func (e *Engine) probe(ctx context.Context, log logger.Logger, name string) (*api.LoginMethod, error) {
	existing, err := e.store.ReadWithContext(ctx, name)
	if err == nil {
		return existing, nil
	}
	if api.IsNotFound(err) {
		return nil, nil
	}
	if e.strict {
		return nil, remote("read", err)
	}
	log.Warn("existence probe failed, treating login method as absent", logger.Err(err))
	return nil, nil
}

// checkReference fetches the registry on every call.
func (e *Engine) checkReference(ctx context.Context, name string) error {
	clients, err := e.registry.ListWithContext(ctx)
	if err != nil {
		return remote("list clients", err)
	}
	return ValidateExternalClient(name, clientNames(clients))
}

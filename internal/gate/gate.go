// Package gate authorizes value transfers before they settle. One authorization
// checks both identities, the sender's recovery redirect and its step-up policy,
// then records the sender's activity, all in a single store transaction.
package gate

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"transfer-gate/internal/address"
	identitydomain "transfer-gate/internal/identity/domain"
	identityrepo "transfer-gate/internal/identity/repository"
	"transfer-gate/internal/ledger"
	recoverydomain "transfer-gate/internal/recovery/domain"
	recoveryrepo "transfer-gate/internal/recovery/repository"
	"transfer-gate/internal/rejection"
	stepupdomain "transfer-gate/internal/stepup/domain"
	stepuprepo "transfer-gate/internal/stepup/repository"
	"transfer-gate/internal/store"
	"transfer-gate/internal/telemetry"
	telemetrydomain "transfer-gate/internal/telemetry/domain"
)

const instrumentationName = "transfer-gate/internal/gate"

// Outcomes recorded on the decision counter.
const (
	OutcomeAuthorized = "authorized"
	OutcomeRejected   = "rejected"
	OutcomeError      = "error"
)

// Request is a transfer presented for authorization. Owner is the signer of the transfer.
type Request struct {
	Source      address.Address
	Destination address.Address
	Owner       address.Address
	Amount      uint64
}

// Repositories are the records the gate reads and writes.
type Repositories struct {
	Identities identityrepo.Repository
	Recovery   recoveryrepo.Repository
	StepUp     stepuprepo.Repository
}

// Gate is the transfer authorization core.
type Gate struct {
	store     store.Store
	repos     Repositories
	acceptor  identitydomain.Acceptor
	window    time.Duration
	emitter   telemetry.EventEmitter
	tracer    trace.Tracer
	decisions metric.Int64Counter
	now       func() time.Time
}

// New returns a gate. A nil acceptor validates the primary issuer only; a
// non-positive window uses the default approval window.
func New(st store.Store, repos Repositories, acceptor identitydomain.Acceptor, window time.Duration) *Gate {
	if acceptor == nil {
		acceptor = identitydomain.PrimaryIssuer{}
	}
	if window <= 0 {
		window = stepupdomain.DefaultApprovalWindow
	}
	g := &Gate{
		store:    st,
		repos:    repos,
		acceptor: acceptor,
		window:   window,
		now:      func() time.Time { return time.Now().UTC() },
	}
	g.instrument(otel.GetTracerProvider(), otel.GetMeterProvider())
	return g
}

// WithClock replaces the gate's time source.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// WithEmitter sets where decision events are sent. nil disables them.
func (g *Gate) WithEmitter(e telemetry.EventEmitter) *Gate {
	g.emitter = e
	return g
}

// WithProviders instruments the gate with tp and mp instead of the global providers.
func (g *Gate) WithProviders(tp trace.TracerProvider, mp metric.MeterProvider) *Gate {
	g.instrument(tp, mp)
	return g
}

func (g *Gate) instrument(tp trace.TracerProvider, mp metric.MeterProvider) {
	g.tracer = tp.Tracer(instrumentationName)
	counter, err := mp.Meter(instrumentationName).Int64Counter(
		"tgate.transfer.decisions",
		metric.WithDescription("Transfer authorization decisions by outcome."),
	)
	if err != nil {
		log.Printf("gate: decision counter: %v", err)
	}
	g.decisions = counter
}

// Authorize decides whether req may settle. A nil error authorizes it and
// consumes any step-up approval it used; a rejection leaves every record unchanged.
func (g *Gate) Authorize(ctx context.Context, req Request) error {
	ctx, span := g.tracer.Start(ctx, "gate.Authorize", trace.WithAttributes(
		attribute.String("tgate.source", req.Source.String()),
		attribute.String("tgate.destination", req.Destination.String()),
		attribute.Int64("tgate.amount", int64(req.Amount)),
	))
	defer span.End()

	now := g.now()
	err := g.store.Update(ctx, func(tx store.Tx) error {
		return g.authorize(ctx, tx, req, now)
	})
	g.record(ctx, span, req, now, err)
	return err
}

func (g *Gate) authorize(ctx context.Context, tx store.Tx, req Request, now time.Time) error {
	sender, err := g.identity(ctx, tx, req.Source)
	if err != nil {
		return err
	}
	// The record's owner was checked against the ledger at issuance.
	if sender.Owner != req.Owner {
		return identitydomain.ErrAccountOwnerMismatch
	}
	params, err := g.repos.StepUp.GetParameters(ctx, tx, req.Source)
	if err != nil {
		return err
	}
	var allowed []address.Address
	if params != nil {
		allowed = params.AllowedIssuers
	}
	if err := g.acceptor.Accept(ctx, sender, allowed, now); err != nil {
		return err
	}
	receiver, err := g.identity(ctx, tx, req.Destination)
	if err != nil {
		return err
	}
	if err := g.acceptor.Accept(ctx, receiver, allowed, now); err != nil {
		return err
	}
	if err := sender.CheckNotRedirected(req.Destination); err != nil {
		return err
	}

	if params == nil {
		return stepupdomain.ErrStepUpNotInitialized
	}
	if params.RequiresStepUp(req.Amount) {
		if err := g.consumeApproval(ctx, tx, req, now); err != nil {
			return err
		}
	}

	activity, err := g.repos.Recovery.GetLastActivity(ctx, tx, req.Owner)
	if err != nil {
		return err
	}
	if activity == nil {
		return recoverydomain.ErrRecoveryNotInitialized
	}
	activity.Touch(now)
	return g.repos.Recovery.PutLastActivity(ctx, tx, req.Owner, *activity)
}

func (g *Gate) identity(ctx context.Context, tx store.Tx, account address.Address) (*identitydomain.Record, error) {
	rec, err := g.repos.Identities.Get(ctx, tx, account)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, identitydomain.ErrIdentityNotFound
	}
	return rec, nil
}

func (g *Gate) consumeApproval(ctx context.Context, tx store.Tx, req Request, now time.Time) error {
	approval, err := g.repos.StepUp.GetApproval(ctx, tx, req.Owner)
	if err != nil {
		return err
	}
	if approval == nil {
		return stepupdomain.ErrNotAuthorized
	}
	pending := stepupdomain.Transaction{Source: req.Source, Destination: req.Destination, Amount: req.Amount}
	if err := approval.Consume(pending, now, g.window); err != nil {
		return err
	}
	return g.repos.StepUp.PutApproval(ctx, tx, req.Owner, approval)
}

func (g *Gate) record(ctx context.Context, span trace.Span, req Request, now time.Time, err error) {
	outcome := OutcomeAuthorized
	eventType := telemetrydomain.EventTransferAuthorized
	code := rejection.CodeOf(err)
	switch {
	case err == nil:
	case code != "":
		outcome = OutcomeRejected
		eventType = telemetrydomain.EventTransferRejected
		span.SetAttributes(attribute.String("tgate.rejection", code))
		log.Printf("gate: rejected %d from %s to %s: %s", req.Amount, req.Source, req.Destination, code)
	default:
		outcome = OutcomeError
		eventType = telemetrydomain.EventTransferRejected
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Printf("gate: authorize %s to %s failed: %v", req.Source, req.Destination, err)
	}
	if g.decisions != nil {
		g.decisions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}

	event := telemetrydomain.NewEvent(eventType, "gate", now)
	event.Owner = req.Owner.String()
	event.Account = req.Source.String()
	event.Destination = req.Destination.String()
	event.Amount = req.Amount
	event.Code = code
	telemetry.EmitAsync(g.emitter, ctx, event)
}

// Hook adapts the gate to the ledger's transfer hook, so the settlement layer
// cannot move value the gate has not authorized.
func (g *Gate) Hook() ledger.Hook {
	return func(ctx context.Context, t ledger.Transfer) error {
		err := g.Authorize(ctx, Request{
			Source:      t.Source,
			Destination: t.Destination,
			Owner:       t.Owner,
			Amount:      t.Amount,
		})
		if err != nil {
			if _, ok := rejection.As(err); ok {
				return err
			}
			return fmt.Errorf("transfer authorization: %w", err)
		}
		return nil
	}
}

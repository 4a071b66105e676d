package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"studytrail/internal/account/identity"
	"studytrail/internal/account/metrics"
	"studytrail/internal/account/models"
	"studytrail/internal/platform/logger"
	id "studytrail/pkg/domain"
	dErrors "studytrail/pkg/domain-errors"
	"studytrail/pkg/requestcontext"
)

// RegistrationMethod is the method recorded on the register audit event.
const RegistrationMethod = "email"

// Non-fatal step names used in logs and metrics.
const (
	stepProfile     = "profile"
	stepPreferences = "preferences"
	stepAudit       = "audit"
)

type IdentityProvider interface {
	CreateAccount(ctx context.Context, req identity.CreateAccountRequest) (*models.Account, error)
}

type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
}

type PreferencesStore interface {
	Create(ctx context.Context, prefs *models.Preferences) error
}

// ActivityRecorder records the register audit event.
type ActivityRecorder interface {
	LogRegistration(ctx context.Context, userID id.UserID, method, firstName, lastName string) error
}

// Provisioner creates an account and its dependent records.
//
// Only the identity step is fatal. Profile, preferences and the audit event
// are best effort: their failures are logged, counted and recorded on the
// span, and never change the returned account. The steps share no
// transaction; a missing profile or preferences row is left for
// out-of-band repair.
type Provisioner struct {
	identity    IdentityProvider
	profiles    ProfileStore
	preferences PreferencesStore
	activity    ActivityRecorder
	logger      *slog.Logger
	metrics     *metrics.Metrics
	clock       func() time.Time
	tracer      trace.Tracer
}

type Option func(*Provisioner)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Provisioner) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Provisioner) {
		p.metrics = m
	}
}

func WithClock(clock func() time.Time) Option {
	return func(p *Provisioner) {
		if clock != nil {
			p.clock = clock
		}
	}
}

func New(identity IdentityProvider, profiles ProfileStore, preferences PreferencesStore, activity ActivityRecorder, opts ...Option) *Provisioner {
	p := &Provisioner{
		identity:    identity,
		profiles:    profiles,
		preferences: preferences,
		activity:    activity,
		logger:      logger.Discard(),
		clock:       time.Now,
		tracer:      otel.Tracer("studytrail/internal/account/service"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Provision creates the account through the identity provider, then its
// profile, default preferences and register audit event.
func (p *Provisioner) Provision(ctx context.Context, req models.ProvisionRequest) (*models.Account, error) {
	ctx, span := p.tracer.Start(ctx, "account.provision")
	defer span.End()
	start := time.Now()

	account, err := p.createIdentity(ctx, req)
	if err != nil {
		p.finish(span, start, err)
		p.logger.WarnContext(ctx, "account provisioning failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", account.ID.String()))

	now := p.clock().UTC()
	p.contain(ctx, span, stepProfile, account.ID, p.profiles.Create(ctx, &models.Profile{
		UserID:    account.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     account.Email,
		CreatedAt: now,
	}))
	p.contain(ctx, span, stepPreferences, account.ID, p.preferences.Create(ctx, models.DefaultPreferences(account.ID, now)))
	p.contain(ctx, span, stepAudit, account.ID, p.recordRegistration(ctx, account.ID, req))

	p.logger.InfoContext(ctx, "account provisioned",
		"user_id", account.ID.String(),
		"log_type", "audit",
		"request_id", requestcontext.RequestID(ctx),
	)
	p.finish(span, start, nil)
	return account, nil
}

func (p *Provisioner) createIdentity(ctx context.Context, req models.ProvisionRequest) (*models.Account, error) {
	account, err := p.identity.CreateAccount(ctx, identity.CreateAccountRequest{
		Email:         req.Email,
		Password:      req.Password,
		EmailVerified: true,
		Metadata: map[string]string{
			models.MetadataFirstName: req.FirstName,
			models.MetadataLastName:  req.LastName,
		},
	})
	if err != nil {
		var de *dErrors.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}
	if account == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "failed to create user")
	}
	return account, nil
}

// recordRegistration converts a recorder panic into an error.
func (p *Provisioner) recordRegistration(ctx context.Context, userID id.UserID, req models.ProvisionRequest) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("activity recorder panic: %v", rec)
		}
	}()
	return p.activity.LogRegistration(ctx, userID, RegistrationMethod, req.FirstName, req.LastName)
}

// contain reports a non-fatal step failure and discards it.
func (p *Provisioner) contain(ctx context.Context, span trace.Span, step string, userID id.UserID, err error) {
	if err == nil {
		return
	}
	span.AddEvent("provisioning step failed", trace.WithAttributes(
		attribute.String("step", step),
		attribute.String("error", err.Error()),
	))
	p.logger.ErrorContext(ctx, "provisioning step failed",
		"step", step,
		"user_id", userID.String(),
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	if p.metrics != nil {
		p.metrics.IncrementStepFailure(step)
	}
}

func (p *Provisioner) finish(span trace.Span, start time.Time, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "account provisioning failed")
	}
	if p.metrics == nil {
		return
	}
	p.metrics.IncrementProvisioned(err == nil)
	p.metrics.ObserveProvision(time.Since(start).Seconds())
}

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ActivationMetrics holds instruments for the license activation path
type ActivationMetrics struct {
	attempts  metric.Int64Counter
	successes metric.Int64Counter
	rejects   metric.Int64Counter
}

// NewActivationMetrics creates activation instruments on the given meter
func NewActivationMetrics(meter metric.Meter) (*ActivationMetrics, error) {
	attempts, err := meter.Int64Counter("license.activation.attempts",
		metric.WithDescription("Total license activation attempts"))
	if err != nil {
		return nil, err
	}
	successes, err := meter.Int64Counter("license.activation.successes",
		metric.WithDescription("Successful license activations"))
	if err != nil {
		return nil, err
	}
	rejects, err := meter.Int64Counter("license.activation.rejections",
		metric.WithDescription("Rejected license activations by reason"))
	if err != nil {
		return nil, err
	}
	return &ActivationMetrics{attempts: attempts, successes: successes, rejects: rejects}, nil
}

// RecordAttempt records an activation attempt
func (m *ActivationMetrics) RecordAttempt(ctx context.Context) {
	if m == nil {
		return
	}
	m.attempts.Add(ctx, 1)
}

// RecordSuccess records a successful activation
func (m *ActivationMetrics) RecordSuccess(ctx context.Context, isNewOrg bool) {
	if m == nil {
		return
	}
	m.successes.Add(ctx, 1, metric.WithAttributes(attribute.Bool("is_new_org", isNewOrg)))
}

// RecordRejection records a rejected activation with its reason code
func (m *ActivationMetrics) RecordRejection(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.rejects.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

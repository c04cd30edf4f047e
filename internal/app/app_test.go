package app

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/sould/property-match/internal/api/metrics"
	"github.com/sould/property-match/internal/core/service"
	"github.com/sould/property-match/internal/infrastructure/jobs"
	"github.com/sould/property-match/internal/pkg/config"
)

func TestNotifyConfig(t *testing.T) {
	cfg := &config.Config{Mail: config.MailConfig{
		Driver:    "smtp",
		From:      "noreply@example.com",
		SMTPHost:  "mail.example.com",
		SMTPPort:  2525,
		SMTPUser:  "bot",
		AMQPURL:   "amqp://broker",
		AMQPQueue: "mail",
	}}

	nc := notifyConfig(cfg)
	if nc.Driver != "smtp" || nc.From != "noreply@example.com" {
		t.Fatalf("unexpected driver config: %+v", nc)
	}
	if nc.SMTP.Host != "mail.example.com" || nc.SMTP.Port != 2525 || nc.SMTP.User != "bot" {
		t.Fatalf("unexpected smtp config: %+v", nc.SMTP)
	}
	if nc.AMQP.URL != "amqp://broker" || nc.AMQP.Queue != "mail" {
		t.Fatalf("unexpected amqp config: %+v", nc.AMQP)
	}
}

func TestObserveSweep(t *testing.T) {
	purged := metrics.SweepPurgedTotal.WithLabelValues("properties")
	before := counterValue(t, purged)
	okRuns := counterValue(t, metrics.SweepRunsTotal.WithLabelValues(jobs.OutcomeOK))

	observeSweep(service.SweepResult{Properties: 3, Comments: 2}, jobs.OutcomeOK)
	observeSweep(service.SweepResult{Properties: 9}, jobs.OutcomeError)

	if got := counterValue(t, purged) - before; got != 3 {
		t.Fatalf("expected 3 purged properties, got %v", got)
	}
	if got := counterValue(t, metrics.SweepRunsTotal.WithLabelValues(jobs.OutcomeOK)) - okRuns; got != 1 {
		t.Fatalf("expected one ok run, got %v", got)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

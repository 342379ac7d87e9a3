package opsgate

import (
	"time"

	"github.com/viant/afs/storage"
	"github.com/viant/opsgate/service/approval"
	"github.com/viant/opsgate/service/meta"
	"github.com/viant/opsgate/service/policy"
	"github.com/viant/opsgate/service/risk"
	"github.com/viant/opsgate/tracing"
)

// Option customises the decision service.
type Option func(s *Service)

// WithConfig supplies a fully built configuration, bypassing config loading.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithConfigURI points the service at a YAML config document resolved through
// the meta service.
func WithConfigURI(URI string) Option {
	return func(s *Service) { s.configURI = URI }
}

// WithRiskEngine replaces the default risk engine.
func WithRiskEngine(engine *risk.Engine) Option {
	return func(s *Service) { s.riskEngine = engine }
}

// WithPolicyValidator replaces the default policy validator.
func WithPolicyValidator(validator *policy.Validator) Option {
	return func(s *Service) { s.validator = validator }
}

// WithApprovalService replaces the default in-memory approval service.
func WithApprovalService(svc approval.Service) Option {
	return func(s *Service) { s.approvalService = svc }
}

// WithNotifier injects the notification capability handed to the approval
// service.
func WithNotifier(notifier approval.Notifier) Option {
	return func(s *Service) { s.notifier = notifier }
}

// WithEndpointRegistry plugs an approved-endpoint catalogue into plan
// validation.
func WithEndpointRegistry(registry policy.EndpointRegistry) Option {
	return func(s *Service) { s.endpointRegistry = registry }
}

// WithClock overrides the wall-clock source used across the pipeline.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetaService sets the meta service.
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) { s.metaService = service }
}

// WithMetaBaseURL sets the meta base URL.
func WithMetaBaseURL(url string) Option {
	return func(s *Service) { s.metaBaseURL = url }
}

// WithMetaFsOptions sets meta file system options.
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) { s.metaFsOptions = options }
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile
// is empty the stdout exporter is used; otherwise traces are written to the
// supplied file path. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

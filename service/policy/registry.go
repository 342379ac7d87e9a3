package policy

import (
	"github.com/viant/opsgate/model"
)

// EndpointRegistry answers whether an API call referenced by a plan step is
// approved for use. It is an extension point: organisations plug in their own
// API catalogue; the default registry permits everything.
type EndpointRegistry interface {
	// Validate inspects the plan's API usage and returns violations for any
	// unapproved endpoint.
	Validate(plan *model.Plan) []model.PolicyViolation
}

// permitAll is the default registry: no endpoint catalogue, no violations.
type permitAll struct{}

func (permitAll) Validate(*model.Plan) []model.PolicyViolation { return nil }

// PermitAllRegistry returns a registry that approves every endpoint.
func PermitAllRegistry() EndpointRegistry { return permitAll{} }

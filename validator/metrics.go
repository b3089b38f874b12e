package validator

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/GabrielNunesIT/openapi-validator/oaerr"
)

const (
	outcomeValid    = "valid"
	outcomeInvalid  = "invalid"
	outcomeInternal = "internal_error"
)

type metrics struct {
	validations *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// newMetrics creates the counters. A nil registerer leaves them unregistered.
// Counters already registered by an earlier validator are shared.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	validations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "openapi_validator_validations_total",
		Help: "Total number of validations by kind and outcome.",
	}, []string{"kind", "outcome"}))
	if err != nil {
		return nil, err
	}

	failures, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "openapi_validator_failures_total",
		Help: "Total number of failed validations by location.",
	}, []string{"kind", "location"}))
	if err != nil {
		return nil, err
	}

	return &metrics{validations: validations, failures: failures}, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if reg == nil {
		return c, nil
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	return c, nil
}

func (m *metrics) observe(kind string, err error) {
	if err == nil {
		m.validations.WithLabelValues(kind, outcomeValid).Inc()
		return
	}
	if !oaerr.IsValidationError(err) {
		m.validations.WithLabelValues(kind, outcomeInternal).Inc()
		return
	}
	m.validations.WithLabelValues(kind, outcomeInvalid).Inc()
	m.failures.WithLabelValues(kind, string(location(err))).Inc()
}

func location(err error) oaerr.Location {
	var (
		param    *oaerr.ParameterError
		reqBody  *oaerr.RequestBodyError
		respBody *oaerr.ResponseBodyError
		missing  *oaerr.ResponseDefinitionMissingError
	)
	switch {
	case errors.As(err, &param):
		return param.In
	case errors.As(err, &reqBody):
		return reqBody.In
	case errors.As(err, &respBody):
		return respBody.In
	case errors.As(err, &missing):
		return oaerr.LocationResponse
	default:
		return oaerr.LocationRouting
	}
}

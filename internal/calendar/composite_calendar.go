package calendar

import (
	"go.uber.org/zap"
)

// CompositeProvider implements Provider with fallback strategy
// Primary: APIProvider (BrasilAPI)
// Fallback: BuiltinProvider (computed locally)
type CompositeProvider struct {
	primary  Provider
	fallback Provider
	logger   *zap.Logger
}

// NewCompositeProvider creates a new CompositeProvider
func NewCompositeProvider(primary, fallback Provider, logger *zap.Logger) *CompositeProvider {
	return &CompositeProvider{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Holidays tries the primary provider and falls back on error
func (cp *CompositeProvider) Holidays(years []int) ([]Holiday, error) {
	holidays, err := cp.primary.Holidays(years)
	if err == nil {
		return holidays, nil
	}

	cp.logger.Warn("Primary holiday provider failed, falling back",
		zap.Ints("years", years),
		zap.Error(err))

	return cp.fallback.Holidays(years)
}

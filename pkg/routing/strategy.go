package routing

import (
	"polaris-hq/polaris/pkg/providers"
	"polaris-hq/polaris/pkg/routing/strategies"
)

// buildStrategy constructs the strategy for the given kind. The weighted
// strategy is seeded with the current descriptor set so its cumulative
// weight table is ready before the first selection. Called on startup
// and again whenever the provider set changes.
func buildStrategy(kind string, descriptors []providers.Descriptor, customFn strategies.SelectFunc) (strategies.Strategy, error) {
	switch kind {
	case StrategyRoundRobin, "":
		return strategies.NewRoundRobin(), nil
	case StrategyFailover:
		return strategies.NewFailover(), nil
	case StrategyWeighted:
		return strategies.NewWeighted(descriptors), nil
	case StrategyCustom:
		return strategies.NewCustom(customFn)
	default:
		return nil, &InvalidStrategyError{Strategy: kind}
	}
}

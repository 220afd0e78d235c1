package registry

import (
	"context"
	"sort"
	"strings"

	"github.com/jonwraymond/svcops/observe"
	"github.com/jonwraymond/svcops/service"
)

// computeOrder produces the startup order for the given service IDs.
//
// The candidate order sorts services by priority (ascending) and breaks
// ties by registration order. Dependencies are then honored with a
// topological sort seeded by that candidate order: at every step the
// first candidate whose registered dependencies have all been placed is
// chosen next. Dependencies naming unregistered IDs are logged and
// ignored.
//
// If a dependency cycle leaves services unplaceable, they are appended
// in candidate order after an error log. Startup always makes progress
// over every registered service; a cycle degrades ordering, it does not
// block it.
func computeOrder(ids []string, configs map[string]service.Config, logger observe.Logger) []string {
	ctx := context.Background()

	candidates := make([]string, len(ids))
	copy(candidates, ids)
	sort.SliceStable(candidates, func(i, j int) bool {
		return configs[candidates[i]].Priority < configs[candidates[j]].Priority
	})

	indegree := make(map[string]int, len(candidates))
	dependents := make(map[string][]string, len(candidates))
	for _, id := range candidates {
		indegree[id] = 0
	}
	for _, id := range candidates {
		for _, dep := range configs[id].Dependencies {
			if _, registered := indegree[dep]; !registered {
				logger.Warn(ctx, "ignoring unknown dependency",
					observe.Field{Key: "service", Value: id},
					observe.Field{Key: "dependency", Value: dep})
				continue
			}
			dependents[dep] = append(dependents[dep], id)
			indegree[id]++
		}
	}

	order := make([]string, 0, len(candidates))
	placed := make(map[string]bool, len(candidates))
	for len(order) < len(candidates) {
		advanced := false
		for _, id := range candidates {
			if placed[id] || indegree[id] != 0 {
				continue
			}
			placed[id] = true
			order = append(order, id)
			for _, dependent := range dependents[id] {
				indegree[dependent]--
			}
			advanced = true
			break
		}
		if advanced {
			continue
		}

		// Every remaining service waits on another remaining service.
		stuck := make([]string, 0, len(candidates)-len(order))
		for _, id := range candidates {
			if !placed[id] {
				stuck = append(stuck, id)
			}
		}
		logger.Error(ctx, "dependency cycle detected",
			observe.Field{Key: "services", Value: strings.Join(stuck, ", ")})
		order = append(order, stuck...)
		break
	}
	return order
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MJE43/cardsim/internal/decision"
	"github.com/MJE43/cardsim/internal/sim"
)

// parseSteps reads a comma separated step list such as
// "CoinFlip,Number:1:6,RandomDamage:3,Chance:record". Chance activates a
// branch node; with :record it resolves the pipeline flag instead.
func parseSteps(s string) ([]sim.Step, error) {
	var steps []sim.Step
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		st, err := parseStep(field)
		if err != nil {
			return nil, err
		}
		steps = append(steps, st)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("no steps given")
	}
	return steps, nil
}

func parseStep(field string) (sim.Step, error) {
	parts := strings.Split(field, ":")
	if parts[0] == "Chance" {
		switch {
		case len(parts) == 1:
			return sim.Step{Op: decision.OpCoinFlip, Chance: true}, nil
		case len(parts) == 2 && parts[1] == "record":
			return sim.Step{Op: decision.OpCoinFlip, Chance: true, Record: true}, nil
		}
		return sim.Step{}, fmt.Errorf("step %q: want Chance or Chance:record", field)
	}
	args := make([]int, 0, len(parts)-1)
	for _, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil {
			return sim.Step{}, fmt.Errorf("step %q: %w", field, err)
		}
		args = append(args, n)
	}

	st := sim.Step{Op: decision.Op(parts[0])}
	switch {
	case st.Op == decision.OpCoinFlip && len(args) == 0:
	case st.Op == decision.OpRandomDamage && len(args) == 1:
		st.Amount = args[0]
	case st.Op == decision.OpNumber && len(args) == 2:
		st.Lo, st.Hi = args[0], args[1]
	default:
		return sim.Step{}, fmt.Errorf("step %q: want CoinFlip, RandomDamage:<max>, Number:<lo>:<hi> or Chance[:record]", field)
	}
	return st, nil
}

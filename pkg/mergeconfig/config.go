// Package mergeconfig is the ambient configuration layer between
// cmd/treemerge's flags and a pkg/merge.MergeContext: it turns raw
// string/flag values into the typed, validated fields the merge core
// expects, following the teacher's pkg/framework/config.go's
// params-struct-plus-sentinel-error idiom.
package mergeconfig

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Sumatoshi-tech/treemerge/pkg/merge"
)

// Sentinel errors for configuration.
var (
	ErrUnknownStrategy = errors.New("mergeconfig: unknown strategy")
	ErrInvalidWeight   = errors.New("mergeconfig: invalid weight")
)

// Params holds raw CLI parameter values for building a MergeContext.
// Weight* fields are plain decimal strings (not byte sizes, so
// go-humanize's size parser does not apply here; see DESIGN.md).
type Params struct {
	Strategy string

	Quiet   bool
	Pretend bool

	LookAhead int

	WeightNoMatch  string
	WeightRename   string
	WeightAncestry string
	WeightSibling  string

	LeftLabel, RightLabel string
}

// DefaultParams returns the Params a bare invocation of cmd/treemerge
// should start from: structured strategy, default cost weights, no
// look-ahead truncation beyond the matcher's own default.
func DefaultParams() Params {
	return Params{
		Strategy:  "structured",
		LookAhead: 2,
	}
}

// Build constructs a *merge.MergeContext[N] from params, parsing its
// strategy name and weight strings and wiring ctx as the cancellation
// token checked at merge node boundaries.
func Build[N merge.TreeNode](ctx context.Context, params Params) (*merge.MergeContext[N], error) {
	strategy, err := parseStrategy(params.Strategy)
	if err != nil {
		return nil, err
	}

	weights, err := parseWeights(params)
	if err != nil {
		return nil, err
	}

	mc := merge.NewMergeContext[N](ctx)
	mc.Strategy = strategy
	mc.Quiet = params.Quiet
	mc.Pretend = params.Pretend
	mc.Weights = weights
	mc.LeftLabel = params.LeftLabel
	mc.RightLabel = params.RightLabel

	if params.LookAhead > 0 {
		mc.LookAhead = params.LookAhead
	}

	return mc, nil
}

func parseStrategy(name string) (merge.Strategy, error) {
	switch name {
	case "", "structured":
		return merge.StructuredStrategy, nil
	case "linebased":
		return merge.LineBasedStrategy, nil
	case "semistructured":
		return merge.SemistructuredStrategy, nil
	case "combined":
		return merge.CombinedStrategy, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
}

func parseWeights(params Params) (merge.Weights, error) {
	w := merge.DefaultWeights()

	for _, f := range []struct {
		raw  string
		dest *float64
	}{
		{params.WeightNoMatch, &w.NoMatch},
		{params.WeightRename, &w.Rename},
		{params.WeightAncestry, &w.Ancestry},
		{params.WeightSibling, &w.Sibling},
	} {
		if f.raw == "" {
			continue
		}

		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return merge.Weights{}, fmt.Errorf("%w: %s", ErrInvalidWeight, f.raw)
		}

		*f.dest = v
	}

	return w, nil
}

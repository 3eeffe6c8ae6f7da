package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treemerge/pkg/alg/mapx"
	"github.com/Sumatoshi-tech/treemerge/pkg/merge"
	"github.com/Sumatoshi-tech/treemerge/pkg/merge/javasyntax"
	"github.com/Sumatoshi-tech/treemerge/pkg/mergeconfig"
)

// ErrTripleArgCount is returned when the positional arguments to merge
// are not a multiple of three (each merge unit is left/base/right).
var ErrTripleArgCount = errors.New("treemerge: arguments must come in left/base/right triples")

const tripleSize = 3

func mergeCmd() *cobra.Command {
	params := mergeconfig.DefaultParams()

	var (
		outDir  string
		twoWay  bool
		costModel bool
		semistructured bool
	)

	cmd := &cobra.Command{
		Use:   "merge left base right [left2 base2 right2 ...]",
		Short: "Three-way merge one or more left/base/right file triples",
		Long: `merge reads left, base, and right revisions of one or more Java
source files, merges each triple structurally, and writes the merged
text to stdout (single triple) or to --out (batch).

Pass --two-way and omit base to merge left/right with no common
ancestor; every unreconciled difference becomes a conflict.`,
		RunE: func(_ *cobra.Command, args []string) error {
			return runMerge(args, params, outDir, twoWay, costModel, semistructured)
		},
	}

	cmd.Flags().StringVar(&params.Strategy, "strategy", params.Strategy, "merge strategy: structured, linebased, semistructured, combined")
	cmd.Flags().BoolVarP(&params.Quiet, "quiet", "q", false, "suppress informational output")
	cmd.Flags().BoolVar(&params.Pretend, "pretend", false, "compute the merge but do not persist output")
	cmd.Flags().IntVar(&params.LookAhead, "lookahead", params.LookAhead, "matcher look-ahead depth")
	cmd.Flags().StringVar(&params.WeightNoMatch, "weight-no-match", "", "cost-model weight wn")
	cmd.Flags().StringVar(&params.WeightRename, "weight-rename", "", "cost-model weight wr")
	cmd.Flags().StringVar(&params.WeightAncestry, "weight-ancestry", "", "cost-model weight wa")
	cmd.Flags().StringVar(&params.WeightSibling, "weight-sibling", "", "cost-model weight ws")
	cmd.Flags().StringVar(&params.LeftLabel, "left-label", "", "conflict marker label for the left side")
	cmd.Flags().StringVar(&params.RightLabel, "right-label", "", "conflict marker label for the right side")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory for batch merges (default: stdout for a single triple)")
	cmd.Flags().BoolVar(&twoWay, "two-way", false, "merge left/right with no base revision")
	cmd.Flags().BoolVar(&costModel, "cost-model", false, "use the cost-model matcher instead of the classical matcher")
	cmd.Flags().BoolVar(&semistructured, "semistructured-bodies", false, "collapse method/constructor bodies to opaque text leaves during parsing")

	return cmd
}

func runMerge(args []string, params mergeconfig.Params, outDir string, twoWay, costModel, semistructured bool) error {
	triples, err := groupTriples(args, twoWay)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var result error

	totalConflicts := make(map[string]int)

	for _, t := range triples {
		counts, mergeErr := mergeTriple(ctx, t, params, outDir, twoWay, costModel, semistructured)
		if mergeErr != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", t.left, mergeErr))

			continue
		}

		mapx.MergeAdditive(totalConflicts, counts)
	}

	if !params.Quiet {
		printConflictSummary(totalConflicts)
	}

	return result
}

type triple struct {
	left, base, right string
}

func groupTriples(args []string, twoWay bool) ([]triple, error) {
	if twoWay {
		if len(args)%2 != 0 || len(args) == 0 {
			return nil, fmt.Errorf("%w: two-way merge needs left/right pairs", ErrTripleArgCount)
		}

		triples := make([]triple, 0, len(args)/2)

		for i := 0; i < len(args); i += 2 {
			triples = append(triples, triple{left: args[i], right: args[i+1]})
		}

		return triples, nil
	}

	if len(args)%tripleSize != 0 || len(args) == 0 {
		return nil, ErrTripleArgCount
	}

	triples := make([]triple, 0, len(args)/tripleSize)

	for i := 0; i < len(args); i += tripleSize {
		triples = append(triples, triple{left: args[i], base: args[i+1], right: args[i+2]})
	}

	return triples, nil
}

func mergeTriple(
	ctx context.Context, t triple, params mergeconfig.Params, outDir string, twoWay, costModel, semistructured bool,
) (map[string]int, error) {
	mc, err := mergeconfig.Build[*javasyntax.Node](ctx, params)
	if err != nil {
		return nil, err
	}

	mc.UseCostModel = costModel

	parser := javasyntax.NewParser()
	parser.Semistructured = semistructured

	leftNode, err := parseFile(parser, t.left)
	if err != nil {
		return nil, err
	}

	rightNode, err := parseFile(parser, t.right)
	if err != nil {
		return nil, err
	}

	var target *merge.Artifact[*javasyntax.Node]

	if twoWay {
		target, err = merge.Merge2(mc, leftNode, rightNode)
	} else {
		baseNode, baseErr := parseFile(parser, t.base)
		if baseErr != nil {
			return nil, baseErr
		}

		target, err = merge.Merge3(mc, leftNode, baseNode, rightNode)
	}

	if err != nil {
		return nil, err
	}

	text, err := target.PrettyPrint()
	if err != nil {
		return nil, err
	}

	var counts map[string]int
	if !mc.Quiet {
		counts = reportConflicts(t.left, target)
	}

	if mc.Pretend {
		return counts, nil
	}

	if err := writeResult(t.left, outDir, text, mc.Quiet); err != nil {
		return nil, err
	}

	return counts, nil
}

func parseFile(parser *javasyntax.Parser, path string) (*javasyntax.Node, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return parser.Parse(content)
}

func writeResult(leftPath, outDir, text string, quiet bool) error {
	if outDir == "" {
		fmt.Print(text)

		return nil
	}

	outPath := filepath.Join(outDir, filepath.Base(leftPath))

	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil { //nolint:gosec // merge output, not a secret
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	if !quiet {
		fmt.Fprintf(os.Stderr, "%s: %s written\n", outPath, humanize.Bytes(uint64(len(text))))
	}

	return nil
}

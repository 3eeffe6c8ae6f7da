package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/treemerge/pkg/alg/levenshtein"
	"github.com/Sumatoshi-tech/treemerge/pkg/alg/mapx"
	"github.com/Sumatoshi-tech/treemerge/pkg/merge"
	"github.com/Sumatoshi-tech/treemerge/pkg/merge/javasyntax"
)

// reportConflicts walks target's subtree and, for every CONFLICT
// pseudo-node, prints a one-line similarity hint to stderr: a
// low-edit-distance conflict is usually a rename or a small divergent
// edit, a high one is a genuine rewrite clash. This is purely
// informational; it never feeds back into the merge itself. It returns
// a count of conflicts by the kind of node each one replaced, for
// runMerge to accumulate into a batch-wide summary.
func reportConflicts(path string, target *merge.Artifact[*javasyntax.Node]) map[string]int {
	var ctx levenshtein.Context

	warn := color.New(color.FgYellow)
	counts := make(map[string]int)

	walkConflicts(target, func(a *merge.Artifact[*javasyntax.Node]) {
		left, right, leftName, rightName := a.ConflictAlternatives()

		leftText, rightText := conflictText(left), conflictText(right)

		dist := ctx.Distance(leftText, rightText)

		warn.Fprintf(os.Stderr, "%s: conflict (%s vs %s), edit distance %d over %d/%d chars\n",
			path, leftName, rightName, dist, len(leftText), len(rightText))

		counts[a.Node().Kind()]++
	})

	return counts
}

// printConflictSummary prints a kind-sorted breakdown of every conflict
// counted across a batch run, so the totals read the same regardless of
// map iteration order.
func printConflictSummary(counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	warn := color.New(color.FgYellow)
	warn.Fprintln(os.Stderr, "conflict summary:")

	for _, kind := range mapx.SortedKeys(counts) {
		warn.Fprintf(os.Stderr, "  %s: %d\n", kind, counts[kind])
	}
}

func conflictText(a *merge.Artifact[*javasyntax.Node]) string {
	if a == nil {
		return ""
	}

	text, err := a.PrettyPrint()
	if err != nil {
		return ""
	}

	return text
}

func walkConflicts(a *merge.Artifact[*javasyntax.Node], visit func(*merge.Artifact[*javasyntax.Node])) {
	if a.IsConflict() {
		visit(a)
	}

	for _, c := range a.Children() {
		walkConflicts(c, visit)
	}
}

package merge

import (
	"fmt"
	"io"
	"strings"

	"github.com/Sumatoshi-tech/treemerge/pkg/merge/linebased"
)

// mergeSemistructured implements spec §4.4's semistructured strategy: when
// both sides of a scenario are leaves carrying opaque text content (a
// method or constructor body collapsed at parse time), the content is
// merged as text via the line-based strategy instead of recursing into
// the structured matcher.
//
// Grounded on ASTNodeArtifact.mergeContent: an exact-match shortcut when
// both sides' content is identical, else a three-way (or two-way, absent
// a base) text merge written into target's content. A divergent text
// merge is spliced into target's parent as a real CONFLICT node, the
// same representation every other conflicting merge in this package
// produces, rather than a bare flag on target.
func (e *Engine[N]) mergeSemistructured(scenario MergeScenario[N], target *Artifact[N]) error {
	left, base, right := scenario.Left, scenario.Base, scenario.Right

	leftText := left.node.Content()
	rightText := right.node.Content()

	if leftText == rightText {
		target.node.SetContent(leftText)

		return nil
	}

	hasBase := base != nil && base.node.IsLeaf()

	var baseText string
	if hasBase {
		baseText = base.node.Content()
	}

	merged, conflicts, err := mergeLineText(leftText, baseText, hasBase, rightText)
	if err != nil {
		return err
	}

	if conflicts == 0 {
		target.node.SetContent(merged)

		return nil
	}

	return e.spliceConflict(scenario, target)
}

// mergeLineText runs the line-based fallback over a pair of texts,
// shared by mergeSemistructured and the CombinedStrategy fallback
// (mergeCombined, fallbackLineBased).
func mergeLineText(leftText, baseText string, hasBase bool, rightText string) (string, int, error) {
	var baseArg io.Reader
	if hasBase {
		baseArg = strings.NewReader(baseText)
	}

	var out strings.Builder

	result, err := linebased.Merge(strings.NewReader(leftText), baseArg, strings.NewReader(rightText), &out)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrExternalStrategyFailed, err)
	}

	return strings.TrimSpace(out.String()), result.Conflicts, nil
}

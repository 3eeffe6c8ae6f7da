// Package linebased implements the line-based fallback merge strategy
// (spec §6): a three-way text merge over whole files or opaque content
// leaves, used when the structured matcher cannot be applied or when
// CONFLICT markers around a failed structural merge would be less
// useful than a textual diff.
//
// The pairwise base-vs-left and base-vs-right diffs are computed with
// github.com/sergi/go-diff/diffmatchpatch's line-mode pipeline, grounded
// on the teacher's own fileDiffFromGoDiff: DiffLinesToRunes, then
// DiffMainRunes, then DiffCleanupSemanticLossless and DiffCleanupMerge.
// The two diffs are then reconciled against the shared base text with a
// classical diff3-style walk: disjoint edits are taken as-is, identical
// overlapping edits collapse to one, and genuinely conflicting edits
// produce a marked conflict region.
package linebased

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Result is the outcome of a Merge call.
type Result struct {
	// Text is the merged output, including any conflict marker blocks.
	Text string
	// Conflicts is the number of conflict regions the merge produced.
	Conflicts int
}

// Merge performs a three-way line-based merge of left, base, and right,
// writing the merged text to out and returning a summary Result. base
// may be nil for a two-way merge, in which case left and right are
// compared with a character-level diff and every difference between
// them becomes its own conflict region, with no shared ancestor text.
func Merge(left, base, right io.Reader, out io.Writer) (Result, error) {
	leftText, err := readAll(left)
	if err != nil {
		return Result{}, fmt.Errorf("linebased: reading left: %w", err)
	}

	rightText, err := readAll(right)
	if err != nil {
		return Result{}, fmt.Errorf("linebased: reading right: %w", err)
	}

	var baseText string

	if base != nil {
		baseText, err = readAll(base)
		if err != nil {
			return Result{}, fmt.Errorf("linebased: reading base: %w", err)
		}
	}

	res := mergeText(leftText, baseText, rightText, base != nil)

	if _, err := io.WriteString(out, res.Text); err != nil {
		return res, fmt.Errorf("linebased: writing output: %w", err)
	}

	return res, nil
}

func readAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

const (
	leftMarker  = "<<<<<<< "
	baseMarker  = "||||||| "
	midMarker   = "======="
	rightMarker = ">>>>>>> "
)

func mergeText(leftText, baseText, rightText string, hasBase bool) Result {
	if leftText == rightText {
		return Result{Text: leftText}
	}

	if !hasBase {
		return mergeTwoWay(leftText, rightText)
	}

	baseLines := splitLines(baseText)
	leftSegs := buildSegments(diffLines(baseText, leftText), baseLines)
	rightSegs := buildSegments(diffLines(baseText, rightText), baseLines)

	return reconcile(leftSegs, rightSegs, baseLines, "LEFT", "RIGHT")
}

// mergeTwoWay handles the no-common-ancestor case by treating every
// difference between left and right as its own conflict region; there
// is no base text to disjoint-edit against.
func mergeTwoWay(leftText, rightText string) Result {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(leftText, rightText, false)
	diffs = dmp.DiffCleanupMerge(dmp.DiffCleanupSemanticLossless(diffs))

	var b strings.Builder

	conflicts := 0

	for i := 0; i < len(diffs); i++ {
		switch diffs[i].Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(diffs[i].Text)
		case diffmatchpatch.DiffDelete:
			deleteText := diffs[i].Text

			var insertText string

			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				insertText = diffs[i+1].Text
				i++
			}

			conflicts++
			writeConflict(&b, deleteText, "", insertText, "LEFT", "RIGHT", false)
		case diffmatchpatch.DiffInsert:
			conflicts++
			writeConflict(&b, "", "", diffs[i].Text, "LEFT", "RIGHT", false)
		}
	}

	return Result{Text: b.String(), Conflicts: conflicts}
}

func diffLines(base, other string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	baseRunes, otherRunes, lineArray := dmp.DiffLinesToRunes(base, other)
	diffs := dmp.DiffMainRunes(baseRunes, otherRunes, false)
	diffs = dmp.DiffCleanupMerge(dmp.DiffCleanupSemanticLossless(diffs))

	return dmp.DiffCharsToLines(diffs, lineArray)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	lines := strings.SplitAfter(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	return lines
}

// segment is one contiguous region of the base text as seen by one
// side's diff: either unchanged (kind == segEqual), or replaced by a
// (possibly empty, for a pure delete, or zero-width, for a pure insert)
// block of lines (kind == segChange).
type segment struct {
	kind             segKind
	baseStart, baseEnd int
	lines            []string
}

type segKind int

const (
	segEqual segKind = iota
	segChange
)

// buildSegments partitions the base line range into a sequence of
// segments, coalescing any maximal run of consecutive Delete/Insert
// diffmatchpatch ops into one change segment, so that a delete
// immediately followed by an insert (a line-level edit) reads as one
// replacement rather than two unrelated ops.
func buildSegments(diffs []diffmatchpatch.Diff, baseLines []string) []segment {
	_ = baseLines

	var segs []segment

	baseIdx := 0
	i := 0

	for i < len(diffs) {
		d := diffs[i]

		if d.Type == diffmatchpatch.DiffEqual {
			lines := splitLines(d.Text)
			segs = append(segs, segment{kind: segEqual, baseStart: baseIdx, baseEnd: baseIdx + len(lines), lines: lines})
			baseIdx += len(lines)
			i++

			continue
		}

		start := baseIdx

		var replacement []string

		for i < len(diffs) && diffs[i].Type != diffmatchpatch.DiffEqual {
			switch diffs[i].Type {
			case diffmatchpatch.DiffDelete:
				baseIdx += len(splitLines(diffs[i].Text))
			case diffmatchpatch.DiffInsert:
				replacement = append(replacement, splitLines(diffs[i].Text)...)
			case diffmatchpatch.DiffEqual:
				// unreachable: loop condition excludes DiffEqual
			}

			i++
		}

		segs = append(segs, segment{kind: segChange, baseStart: start, baseEnd: baseIdx, lines: replacement})
	}

	return segs
}

// segmentAt returns the segment covering base line index idx in segs,
// and whether one was found. segs must partition [0, N) contiguously.
func segmentAt(segs []segment, idx int) (segment, bool) {
	for _, s := range segs {
		if idx >= s.baseStart && idx < s.baseEnd {
			return s, true
		}
	}

	return segment{}, false
}

// reconcile walks base line indices and decides, at each point, which
// side's segment to emit: a base-unchanged side always defers to the
// other side's segment; two overlapping changes with identical
// replacement text collapse silently; two overlapping changes that
// disagree become a conflict region spanning the union of both sides'
// base ranges, carrying that range's base text in the conflict's
// "||||||| base" section (spec §6: three-way output includes it, two-way
// omits it).
func reconcile(leftSegs, rightSegs []segment, baseLines []string, leftName, rightName string) Result {
	var b strings.Builder

	conflicts := 0
	n := 0

	for _, s := range leftSegs {
		if s.baseEnd > n {
			n = s.baseEnd
		}
	}

	for _, s := range rightSegs {
		if s.baseEnd > n {
			n = s.baseEnd
		}
	}

	i := 0
	for i < n {
		ls, lok := segmentAt(leftSegs, i)
		rs, rok := segmentAt(rightSegs, i)

		switch {
		case lok && ls.kind == segEqual && rok && rs.kind == segEqual:
			b.WriteString(lineOrEmpty(ls, i))
			i++
		case rok && rs.kind == segChange && (!lok || ls.kind == segEqual):
			for _, l := range rs.lines {
				b.WriteString(l)
			}

			i = advance(rs, i)
		case lok && ls.kind == segChange && (!rok || rs.kind == segEqual):
			for _, l := range ls.lines {
				b.WriteString(l)
			}

			i = advance(ls, i)
		case lok && rok && ls.kind == segChange && rs.kind == segChange:
			start := ls.baseStart
			if rs.baseStart < start {
				start = rs.baseStart
			}

			end := ls.baseEnd
			if rs.baseEnd > end {
				end = rs.baseEnd
			}

			if joinLines(ls.lines) == joinLines(rs.lines) {
				for _, l := range ls.lines {
					b.WriteString(l)
				}
			} else {
				conflicts++
				writeConflict(&b, joinLines(ls.lines), joinLines(baseSlice(baseLines, start, end)), joinLines(rs.lines), leftName, rightName, true)
			}

			i = end
			if i <= ls.baseStart && i <= rs.baseStart {
				i++ // both zero-width inserts at the same point; avoid stalling
			}
		default:
			i++
		}
	}

	return Result{Text: b.String(), Conflicts: conflicts}
}

func advance(s segment, i int) int {
	if s.baseEnd > i {
		return s.baseEnd
	}

	return i + 1
}

func lineOrEmpty(s segment, i int) string {
	idx := i - s.baseStart
	if idx < 0 || idx >= len(s.lines) {
		return ""
	}

	return s.lines[idx]
}

func joinLines(lines []string) string {
	return strings.Join(lines, "")
}

// baseSlice returns baseLines[start:end], clamped to baseLines' bounds so
// a conflict range computed from two diffs that disagree about exactly
// where base ends never indexes out of range.
func baseSlice(baseLines []string, start, end int) []string {
	if start < 0 {
		start = 0
	}

	if end > len(baseLines) {
		end = len(baseLines)
	}

	if start >= end || start >= len(baseLines) {
		return nil
	}

	return baseLines[start:end]
}

func writeConflict(b *strings.Builder, leftText, baseText, rightText, leftName, rightName string, withBase bool) {
	b.WriteString(leftMarker + leftName + "\n")
	b.WriteString(ensureTrailingNewline(leftText))

	if withBase {
		b.WriteString(baseMarker + "BASE\n")
		b.WriteString(ensureTrailingNewline(baseText))
	}

	b.WriteString(midMarker + "\n")
	b.WriteString(ensureTrailingNewline(rightText))
	b.WriteString(rightMarker + rightName + "\n")
}

func ensureTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}

	return s + "\n"
}

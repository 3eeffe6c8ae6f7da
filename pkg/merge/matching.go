package merge

// Matching is one cross-revision correspondence link between two
// artifacts, carrying the score the matcher assigned it (spec §3, §4.2).
type Matching[N TreeNode] struct {
	Left  *Artifact[N]
	Right *Artifact[N]
	Score int
}

// Other returns the counterpart of a in this matching, and whether a is
// actually one of the two endpoints.
func (m *Matching[N]) Other(a *Artifact[N]) (*Artifact[N], bool) {
	switch {
	case m.Left == a:
		return m.Right, true
	case m.Right == a:
		return m.Left, true
	default:
		return nil, false
	}
}

// Matchings is a set of Matching links for one matcher invocation, plus
// an index from node identity to its matching so Image lookups stay O(1)
// instead of the O(|G|) scan the reference implementation performs
// (spec §9, "image(...) is O(|G|) per lookup").
type Matchings[N TreeNode] struct {
	links []*Matching[N]
	index map[*Artifact[N]]*Matching[N]
}

// NewMatchings returns an empty matching set.
func NewMatchings[N TreeNode]() *Matchings[N] {
	return &Matchings[N]{index: make(map[*Artifact[N]]*Matching[N])}
}

// Add records a new link. Both endpoints must not already appear in any
// link in this set; Add panics if that invariant is violated, since a
// matcher producing overlapping links is a bug in the matcher, not a
// recoverable condition.
func (ms *Matchings[N]) Add(left, right *Artifact[N], score int) *Matching[N] {
	if _, ok := ms.index[left]; ok {
		panic("merge: node already matched")
	}

	if _, ok := ms.index[right]; ok {
		panic("merge: node already matched")
	}

	m := &Matching[N]{Left: left, Right: right, Score: score}
	ms.links = append(ms.links, m)
	ms.index[left] = m
	ms.index[right] = m

	// Maintain the matches map documented on Artifact (spec §3: "the
	// matches relation is symmetric").
	left.matches[right.revision] = m
	right.matches[left.revision] = m

	return m
}

// Image returns the node matched to a in this set, if any.
func (ms *Matchings[N]) Image(a *Artifact[N]) (*Artifact[N], bool) {
	m, ok := ms.index[a]
	if !ok {
		return nil, false
	}

	return m.Other(a)
}

// Contains reports whether a appears in any link of this set.
func (ms *Matchings[N]) Contains(a *Artifact[N]) bool {
	_, ok := ms.index[a]

	return ok
}

// Links returns all links in this set, in insertion order.
func (ms *Matchings[N]) Links() []*Matching[N] {
	return ms.links
}

// TotalScore returns the sum of scores over all links in this set.
func (ms *Matchings[N]) TotalScore() int {
	total := 0

	for _, m := range ms.links {
		total += m.Score
	}

	return total
}

// ScenarioType distinguishes two-way from three-way merge scenarios.
type ScenarioType int

// Scenario types.
const (
	TwoWay ScenarioType = iota
	ThreeWay
)

// String implements fmt.Stringer.
func (t ScenarioType) String() string {
	if t == TwoWay {
		return "two-way"
	}

	return "three-way"
}

// MergeScenario is a (left, base, right) triple plus its type. Base is
// nil for a TwoWay scenario.
type MergeScenario[N TreeNode] struct {
	Left  *Artifact[N]
	Base  *Artifact[N]
	Right *Artifact[N]
	Type  ScenarioType
}

// NewThreeWayScenario constructs a three-way scenario.
func NewThreeWayScenario[N TreeNode](left, base, right *Artifact[N]) MergeScenario[N] {
	return MergeScenario[N]{Left: left, Base: base, Right: right, Type: ThreeWay}
}

// NewTwoWayScenario constructs a two-way scenario (no common ancestor).
func NewTwoWayScenario[N TreeNode](left, right *Artifact[N]) MergeScenario[N] {
	return MergeScenario[N]{Left: left, Right: right, Type: TwoWay}
}

package merge

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/Sumatoshi-tech/treemerge/pkg/alg/hungarian"
	"github.com/Sumatoshi-tech/treemerge/pkg/alg/lru"
)

// matcherCacheEntries bounds both the hash and size caches, and sizes the
// Bloom pre-filter below, matching the teacher's NewDiffCache pattern of
// sizing the filter off the same figure as the cache's own capacity.
const matcherCacheEntries = 1 << 20

// Matcher implements the classical two-pass matcher of spec §4.2:
// top-down matching of maximal isomorphic subtrees by structural hash,
// followed by bottom-up matching of each remaining corresponding pair's
// children via LCS (ordered) or a Hungarian maximum-weight assignment
// (unordered). After a mismatch at some pair (l, r), it optionally looks
// ahead into l's and r's descendants for an isomorphic subtree within
// lookAhead levels before giving up on the pair entirely (spec §6:
// "lookAhead ... subtree depth still considered for matching after a
// mismatch").
type Matcher[N TreeNode] struct {
	hashCache *lru.Cache[*Artifact[N], uint64]
	sizeCache *lru.Cache[*Artifact[N], int]
	lookAhead int
}

// artifactKeyBytes converts an Artifact's pre-order number to a byte key
// for the hash cache's Bloom pre-filter. Numbers are assigned from the
// MergeContext's single per-merge Numbering counter (see artifact.go), so
// they are unique across the left/base/right trees passed to one Matcher.
func artifactKeyBytes[N TreeNode](a *Artifact[N]) []byte {
	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], uint64(a.Number()))

	return buf[:]
}

// NewMatcher returns a Matcher with no look-ahead after a mismatch,
// matching spec's zero-value default.
func NewMatcher[N TreeNode]() *Matcher[N] {
	return NewMatcherWithLookAhead[N](0)
}

// NewMatcherWithLookAhead returns a Matcher whose hash and size caches
// are pre-filtered by a Bloom filter (pkg/alg/lru wraps pkg/alg/bloom),
// so the top-down pass stays O((|T_l|+|T_r|)·depth) rather than
// re-hashing shared subtrees repeatedly (spec §8, deeply-nested-
// identical-subtrees boundary behavior), and whose mismatch-recovery
// path considers lookAhead levels of descendants before giving up on a
// pair (spec §6).
func NewMatcherWithLookAhead[N TreeNode](lookAhead int) *Matcher[N] {
	return &Matcher[N]{
		hashCache: lru.New[*Artifact[N], uint64](
			lru.WithMaxEntries[*Artifact[N], uint64](matcherCacheEntries),
			lru.WithBloomFilter[*Artifact[N], uint64](artifactKeyBytes[N], matcherCacheEntries),
		),
		sizeCache: lru.New[*Artifact[N], int](
			lru.WithMaxEntries[*Artifact[N], int](matcherCacheEntries),
			lru.WithBloomFilter[*Artifact[N], int](artifactKeyBytes[N], matcherCacheEntries),
		),
		lookAhead: lookAhead,
	}
}

// Match produces a Matchings set linking nodes of left and right (spec
// §4.2). left and right are assumed to be corresponding roots — the same
// logical file in two revisions.
func (m *Matcher[N]) Match(left, right *Artifact[N]) *Matchings[N] {
	ms := NewMatchings[N]()
	m.matchNode(left, right, ms)

	return ms
}

// nodeHash hashes a's own structural identity (kind, and label if the
// node kind has unique labels), ignoring children.
func nodeHash[N TreeNode](a *Artifact[N]) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(a.node.Kind()))

	if a.node.HasUniqueLabels() {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(a.node.Label()))
	}

	return h.Sum64()
}

func combineHash(a, b uint64) uint64 {
	// FNV-1a-style mixing of a running hash with a child's subtree hash.
	const prime64 = 1099511628211

	return (a ^ b) * prime64
}

// subtreeHash returns the memoized structural hash of a's entire
// subtree: two subtrees with equal hash are assumed isomorphic for the
// purposes of the top-down pass.
func (m *Matcher[N]) subtreeHash(a *Artifact[N]) uint64 {
	if h, ok := m.hashCache.Get(a); ok {
		return h
	}

	h := nodeHash(a)

	for _, c := range a.children {
		h = combineHash(h, m.subtreeHash(c))
	}

	m.hashCache.Put(a, h)

	return h
}

// subtreeSize returns the memoized node count of a's subtree, used as
// the match score for top-down isomorphic matches (spec §4.2: "score =
// subtree-size").
func (m *Matcher[N]) subtreeSize(a *Artifact[N]) int {
	if n, ok := m.sizeCache.Get(a); ok {
		return n
	}

	n := 1

	for _, c := range a.children {
		n += m.subtreeSize(c)
	}

	m.sizeCache.Put(a, n)

	return n
}

// matchNode matches l against r, preferring the top-down isomorphic fast
// path and falling back to a single-level match plus bottom-up child
// matching.
func (m *Matcher[N]) matchNode(l, r *Artifact[N], ms *Matchings[N]) {
	if ms.Contains(l) || ms.Contains(r) {
		return
	}

	if m.subtreeHash(l) == m.subtreeHash(r) {
		m.matchIsomorphic(l, r, ms)

		return
	}

	if !l.node.Match(r.node) {
		// Neither the subtrees nor the nodes themselves correspond;
		// this is the simplifying candidate-selection rule: bottom-up
		// recursion only continues through pairs that already agree at
		// this level. Nodes below an unmatched pair are left unmatched
		// (no-match, cost w_n under the cost-model view of the same
		// pair), unless look-ahead recovers an isomorphic descendant.
		if m.lookAhead > 0 {
			m.matchAfterMismatch(l, r, ms)
		}

		return
	}

	ms.Add(l, r, 1)
	m.matchChildren(l, r, ms)
}

// matchAfterMismatch implements spec §6's lookAhead: when l and r
// themselves do not correspond, descend into whichever side has
// unmatched descendants within m.lookAhead levels looking for a subtree
// isomorphic to the other side whole, recovering a match the one-level
// give-up rule in matchNode would otherwise miss entirely. Never
// overrides an existing match; bounded by lookAhead.
func (m *Matcher[N]) matchAfterMismatch(l, r *Artifact[N], ms *Matchings[N]) {
	if found := m.findIsomorphic(l, r, ms, m.lookAhead); found != nil {
		m.matchIsomorphic(found, r, ms)

		return
	}

	if found := m.findIsomorphic(r, l, ms, m.lookAhead); found != nil {
		m.matchIsomorphic(l, found, ms)
	}
}

// findIsomorphic searches from's descendants, up to depth levels deep,
// for the first (pre-order) one whose subtree hash equals target's.
// Already-matched descendants are skipped since recovering a match for
// an already-matched node would have no effect anyway.
func (m *Matcher[N]) findIsomorphic(from, target *Artifact[N], ms *Matchings[N], depth int) *Artifact[N] {
	if depth <= 0 {
		return nil
	}

	targetHash := m.subtreeHash(target)

	for _, c := range from.children {
		if ms.Contains(c) {
			continue
		}

		if m.subtreeHash(c) == targetHash {
			return c
		}

		if found := m.findIsomorphic(c, target, ms, depth-1); found != nil {
			return found
		}
	}

	return nil
}

// matchIsomorphic records a match for every corresponding pair of nodes
// in two subtrees already known to be structurally identical, with each
// pair's score equal to its own subtree size.
func (m *Matcher[N]) matchIsomorphic(l, r *Artifact[N], ms *Matchings[N]) {
	if ms.Contains(l) || ms.Contains(r) {
		return
	}

	ms.Add(l, r, m.subtreeSize(l))

	for i := range l.children {
		m.matchIsomorphic(l.children[i], r.children[i], ms)
	}
}

// matchChildren dispatches the bottom-up child matching per spec §4.2:
// LCS for ordered parents, Hungarian maximum-weight assignment for
// unordered parents.
func (m *Matcher[N]) matchChildren(l, r *Artifact[N], ms *Matchings[N]) {
	if len(l.children) == 0 || len(r.children) == 0 {
		return
	}

	if l.node.IsOrdered() {
		m.matchChildrenOrdered(l.children, r.children, ms)

		return
	}

	m.matchChildrenUnordered(l.children, r.children, ms)
}

// childWeight returns the compatibility weight the bottom-up phase uses
// between two candidate children: the isomorphic subtree size when their
// hashes agree, 1 when only the node itself matches, 0 otherwise.
func (m *Matcher[N]) childWeight(a, b *Artifact[N]) int {
	if m.subtreeHash(a) == m.subtreeHash(b) {
		return m.subtreeSize(a)
	}

	if a.node.Match(b.node) {
		return 1
	}

	return 0
}

// matchChildrenOrdered aligns ordered children with a weighted longest
// common subsequence: dp[i][j] is the best total weight achievable over
// the first i left children and first j right children. Ties are
// resolved by the scan order itself (smaller indices are always explored
// first), giving the deterministic tie-break spec §4.2 requires.
func (m *Matcher[N]) matchChildrenOrdered(left, right []*Artifact[N], ms *Matchings[N]) {
	n, p := len(left), len(right)
	dp := make([][]int, n+1)

	for i := range dp {
		dp[i] = make([]int, p+1)
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= p; j++ {
			best := dp[i-1][j]
			if dp[i][j-1] > best {
				best = dp[i][j-1]
			}

			if w := m.childWeight(left[i-1], right[j-1]); w > 0 {
				if cand := dp[i-1][j-1] + w; cand > best {
					best = cand
				}
			}

			dp[i][j] = best
		}
	}

	// Recover the chosen pairs by walking the table backward, preferring
	// the diagonal (a match) whenever it is part of an optimal path.
	i, j := n, p

	var pairs [][2]int

	for i > 0 && j > 0 {
		w := m.childWeight(left[i-1], right[j-1])

		switch {
		case w > 0 && dp[i][j] == dp[i-1][j-1]+w:
			pairs = append(pairs, [2]int{i - 1, j - 1})
			i--
			j--
		case dp[i][j] == dp[i-1][j]:
			i--
		default:
			j--
		}
	}

	for k := len(pairs) - 1; k >= 0; k-- {
		li, rj := pairs[k][0], pairs[k][1]
		m.matchNode(left[li], right[rj], ms)
	}
}

// matchChildrenUnordered aligns unordered children with a maximum-weight
// bipartite assignment (spec §4.2), via pkg/alg/hungarian.
func (m *Matcher[N]) matchChildrenUnordered(left, right []*Artifact[N], ms *Matchings[N]) {
	cost := make([][]float64, len(left))

	for i, l := range left {
		row := make([]float64, len(right))

		for j, r := range right {
			row[j] = float64(m.childWeight(l, r))
		}

		cost[i] = row
	}

	assignment := hungarian.Solve(cost)

	for i, j := range assignment {
		if j < 0 {
			continue
		}

		m.matchNode(left[i], right[j], ms)
	}
}

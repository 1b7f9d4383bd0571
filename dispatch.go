package evtrie

// match records one terminal node reached while searching for every pattern
// whose language contains an emitted name, together with the hop trail used
// to reach it so the invocation phase can shrink the trie bottom-up once its
// handlers have fired.
type match struct {
	n     *node
	trail []hop
}

// visitKey identifies a (cursor, node) pair already explored during
// discovery, so that overlapping wildcard chains are walked at most once.
type visitKey struct {
	n *node
	c int
}

// discover finds every node whose terminal matches name: nodes reached by
// plain literal/wildcard descent, a node's own wildcard child when the
// wildcard absorbs an empty suffix, and literal children of a wildcard
// located via a KMP scan over the remaining suffix. Each matching node is
// recorded once even if several traversal paths reach it.
//
// This corresponds to the specification's discovery phase; it is expressed
// here as a single recursive walk with memoized (cursor, node) states rather
// than the described explicit trail-stack worklist, which is behaviorally
// equivalent (same nodes discovered, same one-pass-before-any-handler-fires
// guarantee) and simpler to read. See DESIGN.md.
func (idx *Index) discover(name string) []match {
	var matches []match
	fired := make(map[*node]bool)
	visited := make(map[visitKey]bool)

	var walk func(c int, n *node, trail []hop)
	walk = func(c int, n *node, trail []hop) {
		key := visitKey{n, c}
		if visited[key] {
			return
		}
		visited[key] = true

		if c == len(name) {
			if !fired[n] {
				fired[n] = true
				matches = append(matches, match{n: n, trail: trail})
			}
			if n.wildcard != nil && !fired[n.wildcard] {
				fired[n.wildcard] = true
				matches = append(matches, match{n: n.wildcard, trail: appendHop(trail, n, true, 0)})
			}
			return
		}

		p := name[c]
		child, literalOK := n.children[p]
		if literalOK {
			m := child.longestPrefixMatch(name, c)
			literalOK = m == len(child.label)
		}

		if n.wildcard == nil {
			if literalOK {
				walk(c+len(child.label), child, appendHop(trail, n, false, p))
			}
			return
		}

		w := n.wildcard
		if !fired[w] {
			fired[w] = true
			matches = append(matches, match{n: w, trail: appendHop(trail, n, true, 0)})
		}

		if literalOK {
			walk(c+len(child.label), child, appendHop(trail, n, false, p))
		}

		for _, g := range literalChildrenSorted(w) {
			ft := g.failureTable()
			label := g.label
			kmpFindAll(name, c, label, ft, func(end int) {
				// Fresh trail, not trail-to-n prefixed: W's own detachment is
				// already covered by its separate match above, so g's cleanup
				// path starts at W, not at the root.
				walk(end, g, []hop{{parent: w, key: label[0]}})
			})
		}
	}

	walk(0, &idx.root, nil)
	return matches
}

func appendHop(trail []hop, parent *node, wildcard bool, key byte) []hop {
	out := make([]hop, len(trail), len(trail)+1)
	copy(out, trail)
	return append(out, hop{parent: parent, wildcard: wildcard, key: key})
}

func literalChildrenSorted(n *node) []*node {
	if len(n.children) == 0 {
		return nil
	}
	keys := make([]byte, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	out := make([]*node, len(keys))
	for i, k := range keys {
		out[i] = n.children[k]
	}
	return out
}

// Dispatch fires every handler whose pattern matches name, passing args
// through unchanged, and reports whether any handler was invoked. One-shot
// handlers are removed from their node as they fire, so a handler added to a
// matching pattern by another handler during this call is never invoked in
// the same Dispatch: the set of candidate nodes is fixed by discover before
// any handler runs.
//
// Dispatch itself does not recover from a panicking handler; propagation
// policy belongs to the caller (see Bus, which wraps Dispatch with recovery).
func (idx *Index) Dispatch(name string, args ...any) bool {
	return idx.invoke(name, args, idx.discover(name))
}

// invoke runs the invocation phase over a pre-computed match set. Factored
// out of Dispatch so CachedIndex can skip discover on a cache hit and still
// share the exact firing, one-shot consumption and shrink behavior.
func (idx *Index) invoke(name string, args []any, matches []match) bool {
	fired := false

	for _, m := range matches {
		if m.n.permanent != nil {
			for _, h := range m.n.permanent.snapshot() {
				h.invoke(name, args)
				fired = true
			}
		}
		if m.n.oneshot != nil {
			for _, h := range m.n.oneshot.snapshot() {
				m.n.oneshot.remove(h)
				if m.n.oneshot.len() == 0 {
					m.n.oneshot = nil
				}
				h.invoke(name, args)
				fired = true
			}
		}
	}

	for i := len(matches) - 1; i >= 0; i-- {
		idx.shrinkChain(matches[i].trail, matches[i].n)
	}

	return fired
}

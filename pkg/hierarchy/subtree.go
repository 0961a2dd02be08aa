// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package hierarchy

// Subtree returns the ids of rootID and all its descendants, parents before
// children.
//
// Traversal uses an explicit work-list rather than recursion so that
// pathologically deep trees cannot overflow the stack. If rootID is not in
// the input the result is empty.
func Subtree[T Item](items []T, rootID string) []string {
	childrenOf := make(map[string][]string, len(items))
	known := make(map[string]bool, len(items))
	for _, item := range items {
		known[item.ItemID()] = true
	}
	for _, item := range items {
		parentID := item.ItemParentID()
		if parentID == "" || parentID == item.ItemID() || !known[parentID] {
			continue
		}
		childrenOf[parentID] = append(childrenOf[parentID], item.ItemID())
	}

	if !known[rootID] {
		return nil
	}

	var collected []string
	worklist := []string{rootID}
	visited := map[string]bool{rootID: true}

	for len(worklist) > 0 {
		id := worklist[0]
		worklist = worklist[1:]
		collected = append(collected, id)

		for _, childID := range childrenOf[id] {
			// visited guards against malformed cyclic data.
			if !visited[childID] {
				visited[childID] = true
				worklist = append(worklist, childID)
			}
		}
	}

	return collected
}

// IsDescendant reports whether candidateID is rootID itself or one of its
// descendants. It is the cycle check used when reparenting: a node may not
// be moved under itself or under any node of its own subtree.
func IsDescendant[T Item](items []T, rootID, candidateID string) bool {
	for _, id := range Subtree(items, rootID) {
		if id == candidateID {
			return true
		}
	}
	return false
}

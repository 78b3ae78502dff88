// Package tree provides index arithmetic over flat, parent-pointer encoded
// trees.
//
// A tree is stored as an ordered slice of nodes where every node names its
// parent by id and roots use RootParentID. Nodes follow the contiguous
// subtree layout: the descendants of a node immediately follow it in list
// order. Sibling order is list order, and the sibling rank of a node is the
// number of same-parent nodes that precede it in the list.
package tree

import (
	derrors "github.com/blocklang/designer/internal/errors"
)

// RootParentID is the parent id carried by root nodes.
const RootParentID = "-1"

// Node is a single entry of a flat tree.
type Node interface {
	NodeID() string
	NodeParentID() string
}

// Item is the minimal Node implementation.
type Item struct {
	ID       string `json:"id" yaml:"id"`
	ParentID string `json:"parentId" yaml:"parentId"`
}

// NodeID implements Node.
func (i Item) NodeID() string { return i.ID }

// NodeParentID implements Node.
func (i Item) NodeParentID() string { return i.ParentID }

// PathEntry is one step of an ancestor chain. Rank is the sibling rank of
// Node, or -1 for the head of the chain.
type PathEntry[T Node] struct {
	Node  T
	Rank  int
	Index int
}

func checkIndex[T Node](nodes []T, index int) error {
	if index < 0 || index >= len(nodes) {
		return derrors.ErrIndexOutOfRange(index, len(nodes))
	}
	return nil
}

// ChildCount returns the number of descendants of nodes[rootIndex].
func ChildCount[T Node](nodes []T, rootIndex int) (int, error) {
	if err := checkIndex(nodes, rootIndex); err != nil {
		return 0, err
	}

	active := map[string]struct{}{nodes[rootIndex].NodeID(): {}}
	count := 0
	for i := rootIndex + 1; i < len(nodes); i++ {
		if _, ok := active[nodes[i].NodeParentID()]; !ok {
			break
		}
		active[nodes[i].NodeID()] = struct{}{}
		count++
	}

	return count, nil
}

// ChildIndices returns the positions of the direct children of parentID,
// scanning from fromIndex and stopping at the first node that is no longer
// inside the parent's subtree.
func ChildIndices[T Node](nodes []T, parentID string, fromIndex int) []int {
	if fromIndex < 0 {
		fromIndex = 0
	}

	result := make([]int, 0)
	active := map[string]struct{}{parentID: {}}
	for i := fromIndex; i < len(nodes); i++ {
		pid := nodes[i].NodeParentID()
		if _, ok := active[pid]; !ok {
			break
		}
		if pid == parentID {
			result = append(result, i)
		}
		active[nodes[i].NodeID()] = struct{}{}
	}

	return result
}

// PreviousSiblingIndex returns the position of the sibling that precedes
// nodes[index], or -1.
func PreviousSiblingIndex[T Node](nodes []T, index int) (int, error) {
	if err := checkIndex(nodes, index); err != nil {
		return -1, err
	}

	parentID := nodes[index].NodeParentID()
	for i := index - 1; i >= 0; i-- {
		// reached the parent, nothing before us
		if nodes[i].NodeID() == parentID {
			return -1, nil
		}
		// anything else in between belongs to the previous sibling's subtree
		if nodes[i].NodeParentID() == parentID {
			return i, nil
		}
	}

	return -1, nil
}

// NextSiblingIndex returns the position of the sibling that follows
// nodes[index], or -1. The node's own subtree is skipped.
func NextSiblingIndex[T Node](nodes []T, index int) (int, error) {
	count, err := ChildCount(nodes, index)
	if err != nil {
		return -1, err
	}

	next := index + count + 1
	if next < len(nodes) && nodes[next].NodeParentID() == nodes[index].NodeParentID() {
		return next, nil
	}

	return -1, nil
}

// ParentIndex returns the position of the parent of nodes[index], or -1 for
// roots and for nodes whose parent is missing.
func ParentIndex[T Node](nodes []T, index int) (int, error) {
	if err := checkIndex(nodes, index); err != nil {
		return -1, err
	}

	return parentIndex(nodes, nodes[index].NodeParentID()), nil
}

func parentIndex[T Node](nodes []T, parentID string) int {
	if parentID == RootParentID {
		return -1
	}
	for i, n := range nodes {
		if n.NodeID() == parentID {
			return i
		}
	}
	return -1
}

// SiblingRank returns the zero-based number of nodes that share the parent
// of nodes[index] and precede it in list order.
func SiblingRank[T Node](nodes []T, index int) (int, error) {
	if err := checkIndex(nodes, index); err != nil {
		return -1, err
	}

	return siblingRank(nodes, index), nil
}

func siblingRank[T Node](nodes []T, index int) int {
	parentID := nodes[index].NodeParentID()
	rank := 0
	for i := 0; i < index; i++ {
		if nodes[i].NodeParentID() == parentID {
			rank++
		}
	}
	return rank
}

// NodePath returns the ancestor chain from the root down to nodes[index].
// An out of range index yields an empty chain.
func NodePath[T Node](nodes []T, index int) []PathEntry[T] {
	if index < 0 || index >= len(nodes) {
		return []PathEntry[T]{}
	}

	reversed := make([]PathEntry[T], 0, 4)
	visited := make(map[int]struct{})
	for current := index; current != -1; {
		if _, seen := visited[current]; seen {
			break
		}
		visited[current] = struct{}{}

		reversed = append(reversed, PathEntry[T]{
			Node:  nodes[current],
			Rank:  siblingRank(nodes, current),
			Index: current,
		})
		current = parentIndex(nodes, nodes[current].NodeParentID())
	}

	path := make([]PathEntry[T], len(reversed))
	for i := range reversed {
		path[i] = reversed[len(reversed)-1-i]
	}
	path[0].Rank = -1

	return path
}

// IndexOf returns the position of the node with the given id, or -1.
func IndexOf[T Node](nodes []T, id string) int {
	for i, n := range nodes {
		if n.NodeID() == id {
			return i
		}
	}
	return -1
}

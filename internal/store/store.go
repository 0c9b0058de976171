// Package store implements the tree operations of the family editor. Every
// operation is a pure function from the current snapshot and its arguments
// to a new snapshot; the input is never modified. Operations addressed at an
// ID that is not in the tree return the tree unchanged.
package store

import (
	"cmp"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/mesh-intelligence/familytree/internal/traverse"
	"github.com/mesh-intelligence/familytree/pkg/types"
)

// DefaultRootName names the root of a reset tree when no seed name is given.
const DefaultRootName = "Ancestor"

// now is the clock ResetTree reads the current year from. Tests replace it.
var now = time.Now

// AddChild appends a new member built from f to the children of parentID and
// returns the new tree and the new member's ID. When parentID is not in the
// tree no member is created: root is returned with an empty ID. An invalid
// field bundle returns an error wrapping types.ErrInvalidFields.
func AddChild(root *types.Member, parentID string, f types.MemberFields) (*types.Member, string, error) {
	if err := f.Validate(); err != nil {
		return root, "", err
	}
	if traverse.Find(root, parentID) == nil {
		return root, "", nil
	}

	child := newMember(f)
	next := traverse.RebuildWith(root, parentID, func(parent *types.Member) *types.Member {
		cp := parent.ShallowCopy()
		cp.Children = append(cp.Children, child)
		return cp
	})
	return next, child.ID, nil
}

// AddSibling adds a new member built from f next to memberID, as the last
// child of memberID's parent. It returns types.ErrRootSibling when memberID
// is the root. When memberID is not in the tree the tree is unchanged.
func AddSibling(root *types.Member, memberID string, f types.MemberFields) (*types.Member, string, error) {
	if root != nil && root.ID == memberID {
		return root, "", types.ErrRootSibling
	}
	parent := traverse.FindParent(root, memberID)
	if parent == nil {
		if err := f.Validate(); err != nil {
			return root, "", err
		}
		return root, "", nil
	}
	return AddChild(root, parent.ID, f)
}

// UpdateMember replaces every field of the member carrying updated.ID with
// the values in updated. The member keeps the children it has in root;
// updated.Children is ignored. A replacement whose fields fail validation
// leaves the tree unchanged.
func UpdateMember(root *types.Member, updated types.Member) *types.Member {
	if err := updated.Fields().Validate(); err != nil {
		return root
	}
	return traverse.RebuildWith(root, updated.ID, func(existing *types.Member) *types.Member {
		cp := updated
		cp.Children = existing.Children
		return &cp
	})
}

// DeleteMember removes memberID and its whole subtree. When memberID is the
// root nothing is removed and types.ErrRootDeletion is returned; the caller
// confirms with the user and then calls ResetTree.
func DeleteMember(root *types.Member, memberID string) (*types.Member, error) {
	if root != nil && root.ID == memberID {
		return root, types.ErrRootDeletion
	}
	return traverse.DeleteByID(root, memberID), nil
}

// ResetTree returns a brand-new single-member tree. Empty seed fields fall
// back to DefaultRootName, male, and the current year.
func ResetTree(seed types.MemberFields) *types.Member {
	if strings.TrimSpace(seed.Name) == "" {
		seed.Name = DefaultRootName
	}
	if !seed.Gender.Valid() {
		seed.Gender = types.GenderMale
	}
	if seed.BirthDate == "" {
		seed.BirthDate = strconv.Itoa(now().Year())
	}
	return newMember(seed)
}

// SortChildren orders the direct children of parentID by ascending birth
// year. The sort is stable and shallow: equal years keep their relative
// order and grandchildren are not reordered. A parent without children or an
// absent parent leaves the tree unchanged.
func SortChildren(root *types.Member, parentID string) *types.Member {
	parent := traverse.Find(root, parentID)
	if parent == nil || parent.IsLeaf() {
		return root
	}
	return traverse.RebuildWith(root, parentID, func(m *types.Member) *types.Member {
		cp := m.ShallowCopy()
		slices.SortStableFunc(cp.Children, func(a, b *types.Member) int {
			return cmp.Compare(BirthYear(a.BirthDate), BirthYear(b.BirthDate))
		})
		return cp
	})
}

// BirthYear parses the leading integer of a birth date: surrounding space is
// ignored, an optional sign and the run of decimal digits after it are read,
// and anything that follows is dropped. "1980-05-01" is 1980. A value
// without leading digits is 0. A digit run too long for an int saturates at
// math.MaxInt (math.MinInt when negative), so it still sorts last (first).
func BirthYear(date string) int {
	s := strings.TrimSpace(date)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == start {
		return 0
	}
	year, err := strconv.Atoi(s[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	// On ErrRange Atoi has already clamped year to the int bounds.
	return year
}

// CountMembers returns the number of members in the tree, root included.
func CountMembers(root *types.Member) int {
	count := 0
	traverse.Walk(root, func(*types.Member, int) bool {
		count++
		return true
	})
	return count
}

// CountGenerations returns the number of members on the longest path from
// the root to a leaf. A root without children is one generation.
func CountGenerations(root *types.Member) int {
	deepest := 0
	traverse.Walk(root, func(_ *types.Member, depth int) bool {
		deepest = max(deepest, depth+1)
		return true
	})
	return deepest
}

func newMember(f types.MemberFields) *types.Member {
	m := &types.Member{ID: traverse.NewID(), Children: []*types.Member{}}
	return m.WithFields(f)
}

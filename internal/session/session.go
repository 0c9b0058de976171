// Package session holds the state of one editing session: the current tree
// snapshot and the selected member. Every mutation runs a store operation
// against the current snapshot and swaps in the result, so readers always
// observe a whole snapshot, either the one before or the one after a write.
//
// Biographies are generated in the background and folded back in as an
// ordinary member update.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mesh-intelligence/familytree/internal/biography"
	"github.com/mesh-intelligence/familytree/internal/logging"
	"github.com/mesh-intelligence/familytree/internal/store"
	"github.com/mesh-intelligence/familytree/internal/traverse"
	"github.com/mesh-intelligence/familytree/pkg/types"
)

// Session is safe for concurrent use. Writes are serialized; background
// biography results are applied through the same path as user edits.
type Session struct {
	mu       sync.RWMutex
	root     *types.Member
	selected string

	generator   biography.Generator
	concurrency int
	limit       int
	onBio       func(memberID string, r biography.Result)
	logger      *slog.Logger

	pending sync.WaitGroup
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithBatch sets the concurrency and requests-per-minute used by
// GenerateAll. A non-positive rate disables pacing.
func WithBatch(concurrency, perMinute int) Option {
	return func(s *Session) {
		s.concurrency = concurrency
		s.limit = perMinute
	}
}

// OnBiography registers fn to observe every biography result after it has
// been applied. fn runs on the goroutine that produced the result.
func OnBiography(fn func(memberID string, r biography.Result)) Option {
	return func(s *Session) { s.onBio = fn }
}

// New starts a session on root. gen may be nil, in which case biography
// requests fail with a placeholder.
func New(root *types.Member, gen biography.Generator, opts ...Option) *Session {
	s := &Session{
		root:        root,
		generator:   gen,
		concurrency: 1,
		logger:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.generator == nil {
		s.generator = biography.GeneratorFunc(func(context.Context, biography.Request) biography.Result {
			return biography.Failed(biography.PlaceholderNoAPIKey, nil)
		})
	}
	return s
}

// Snapshot returns the current tree. The returned value must not be modified.
func (s *Session) Snapshot() *types.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// Member returns the member with the given ID in the current snapshot.
// It returns types.ErrMemberNotFound when id is not in the tree.
func (s *Session) Member(id string) (*types.Member, error) {
	m := traverse.Find(s.Snapshot(), id)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrMemberNotFound, id)
	}
	return m, nil
}

// Select marks id as the selected member and returns it.
func (s *Session) Select(id string) (*types.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := traverse.Find(s.root, id)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrMemberNotFound, id)
	}
	s.selected = id
	return m, nil
}

// Selected returns the selected member ID, or "" when nothing is selected.
func (s *Session) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// ClearSelection deselects the selected member.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// AddChild adds a member built from f under parentID and returns its ID.
// It returns types.ErrMemberNotFound when parentID is not in the tree.
func (s *Session) AddChild(parentID string, f types.MemberFields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, id, err := store.AddChild(s.root, parentID, f)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("%w: %s", types.ErrMemberNotFound, parentID)
	}
	s.root = next
	s.logger.Debug("added child", "parent_id", parentID, "member_id", id)
	return id, nil
}

// AddSibling adds a member built from f next to memberID and returns its ID.
// It returns types.ErrRootSibling when memberID is the root.
func (s *Session) AddSibling(memberID string, f types.MemberFields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, id, err := store.AddSibling(s.root, memberID, f)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("%w: %s", types.ErrMemberNotFound, memberID)
	}
	s.root = next
	s.logger.Debug("added sibling", "sibling_of", memberID, "member_id", id)
	return id, nil
}

// Update applies f to memberID, keeping its ID, children and biography.
func (s *Session) Update(memberID string, f types.MemberFields) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return s.modify(memberID, func(m *types.Member) *types.Member {
		return m.WithFields(f)
	})
}

// SetBio replaces the biography of memberID.
func (s *Session) SetBio(memberID, bio string) error {
	return s.modify(memberID, func(m *types.Member) *types.Member {
		cp := m.ShallowCopy()
		cp.Bio = bio
		return cp
	})
}

// modify reads memberID from the current snapshot, derives its replacement
// with fn and stores it through store.UpdateMember, all under the write lock.
func (s *Session) modify(memberID string, fn func(*types.Member) *types.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := traverse.Find(s.root, memberID)
	if current == nil {
		return fmt.Errorf("%w: %s", types.ErrMemberNotFound, memberID)
	}
	s.root = store.UpdateMember(s.root, *fn(current))
	s.logger.Debug("updated member", "member_id", memberID)
	return nil
}

// Delete removes memberID and its descendants. Deleting the root returns
// types.ErrRootDeletion and changes nothing; confirm with the user, then
// call Reset. Deleting the selected member, or an ancestor of it, clears the
// selection.
func (s *Session) Delete(memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if traverse.Find(s.root, memberID) == nil {
		return fmt.Errorf("%w: %s", types.ErrMemberNotFound, memberID)
	}
	next, err := store.DeleteMember(s.root, memberID)
	if err != nil {
		return err
	}
	s.root = next
	if s.selected != "" && traverse.Find(s.root, s.selected) == nil {
		s.selected = ""
	}
	s.logger.Debug("deleted member", "member_id", memberID)
	return nil
}

// Reset discards the whole tree and starts over with a single root built
// from seed. The selection is cleared.
func (s *Session) Reset(seed types.MemberFields) *types.Member {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.root = store.ResetTree(seed)
	s.selected = ""
	s.logger.Info("started a new tree", "root_id", s.root.ID)
	return s.root
}

// Sort orders the children of parentID by birth year.
func (s *Session) Sort(parentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if traverse.Find(s.root, parentID) == nil {
		return fmt.Errorf("%w: %s", types.ErrMemberNotFound, parentID)
	}
	s.root = store.SortChildren(s.root, parentID)
	return nil
}

// Stats returns the member and generation counts of the current snapshot.
func (s *Session) Stats() (members, generations int) {
	root := s.Snapshot()
	return store.CountMembers(root), store.CountGenerations(root)
}

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/familytree/internal/biography"
	"github.com/mesh-intelligence/familytree/internal/traverse"
	"github.com/mesh-intelligence/familytree/pkg/types"
)

// RequestBiography starts generating a biography for memberID and returns
// immediately. The result is stored in the member's Bio when it arrives,
// against the member as it is at that moment; if the member was deleted in
// the meantime the result is dropped. Use Wait to block until every pending
// request is done.
func (s *Session) RequestBiography(ctx context.Context, memberID string) error {
	m, err := s.Member(memberID)
	if err != nil {
		return err
	}
	req := biography.RequestFor(m)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.applyBiography(memberID, s.generator.Generate(ctx, req))
	}()
	return nil
}

// Wait blocks until every biography started by RequestBiography has been
// applied.
func (s *Session) Wait() {
	s.pending.Wait()
}

// GenerateAll generates a biography for every member of the current
// snapshot, honouring the batch concurrency and rate configured with
// WithBatch. It blocks until all results are applied or ctx is done.
func (s *Session) GenerateAll(ctx context.Context) error {
	var jobs []biography.Job
	traverse.Walk(s.Snapshot(), func(m *types.Member, _ int) bool {
		jobs = append(jobs, biography.Job{MemberID: m.ID, Request: biography.RequestFor(m)})
		return true
	})

	batch := biography.Batch{
		Generator:   s.generator,
		Concurrency: s.concurrency,
		Limiter:     biography.NewLimiter(s.limit),
	}
	if err := batch.Run(ctx, jobs, s.applyBiography); err != nil {
		return fmt.Errorf("generate biographies: %w", err)
	}
	return nil
}

func (s *Session) applyBiography(memberID string, r biography.Result) {
	if !r.OK() {
		s.logger.Warn("biography generation failed", "member_id", memberID, "placeholder", r.Failure, "reason", r.Reason)
	}
	err := s.SetBio(memberID, r.Body())
	switch {
	case errors.Is(err, types.ErrMemberNotFound):
		s.logger.Debug("dropped biography for removed member", "member_id", memberID)
	case err != nil:
		s.logger.Error("store biography", "member_id", memberID, "error", err)
	}
	if s.onBio != nil {
		s.onBio(memberID, r)
	}
}

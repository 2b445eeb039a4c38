package dedup

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/archivum/archivum/pkg/catalog"
	"github.com/archivum/archivum/pkg/contextutil"
)

// reconcileProjects classifies every project this source just contributed
// against its peers: same identifier, different identifier but same name.
func (e *Engine) reconcileProjects(ctx context.Context, sourceID string) error {
	projects, err := e.store.Projects.ListBySource(ctx, sourceID)
	if err != nil {
		return err
	}

	for _, p := range projects {
		if contextutil.IsCancelled(ctx) {
			return ctx.Err()
		}
		if err := e.reconcileByIdentifier(ctx, p); err != nil {
			return fmt.Errorf("project %s: %w", p.RootPath, err)
		}
		if err := e.reconcileByName(ctx, p); err != nil {
			return fmt.Errorf("project %s: %w", p.RootPath, err)
		}
	}
	return nil
}

// reconcileByIdentifier groups p with every other project sharing its
// identifier, classifying each member EXACT or SAME_PROJECT_DIFF_CONTENT
// relative to the group's primary (the earliest scanned member).
func (e *Engine) reconcileByIdentifier(ctx context.Context, p catalog.CodeProject) error {
	peers, err := e.store.Projects.ListByIdentifier(ctx, p.Identifier)
	if err != nil {
		return err
	}

	all := othersPlusSelf(peers, p)
	if len(all) < 2 {
		return nil
	}

	primary := earliestScanned(all)
	groupID, err := e.store.Projects.UpsertDuplicateGroup(ctx, uuid.New().String(), p.Identifier)
	if err != nil {
		return err
	}

	primaryHashes, err := e.store.Projects.GetSourceFileHashes(ctx, primary.ID)
	if err != nil {
		return err
	}

	for _, m := range all {
		member := &catalog.CodeProjectDuplicateMember{
			ID:            uuid.New().String(),
			GroupID:       groupID,
			CodeProjectID: m.ID,
			IsPrimary:     m.ID == primary.ID,
		}

		if m.ContentHash == primary.ContentHash {
			member.DuplicateType = "EXACT"
		} else {
			member.DuplicateType = "SAME_PROJECT_DIFF_CONTENT"

			memberHashes, err := e.store.Projects.GetSourceFileHashes(ctx, m.ID)
			if err != nil {
				return err
			}
			similarity := jaccardSimilarity(primaryHashes, memberHashes)
			member.SimilarityPercent = sql.NullFloat64{Float64: similarity * 100, Valid: true}
			member.DiffComplexity = sql.NullString{
				String: diffComplexityBucket(primary.SourceFileCount, m.SourceFileCount),
				Valid:  true,
			}
		}

		if err := e.store.Projects.AddDuplicateMember(ctx, member); err != nil {
			return err
		}
	}

	return nil
}

// reconcileByName groups p with every project sharing its name but a
// different identifier (a version bump of the same project), classifying
// every member DIFFERENT_VERSION.
func (e *Engine) reconcileByName(ctx context.Context, p catalog.CodeProject) error {
	peers, err := e.store.Projects.ListByName(ctx, p.Name, p.Identifier)
	if err != nil {
		return err
	}
	if len(peers) == 0 {
		return nil
	}

	all := othersPlusSelf(peers, p)
	primary := earliestScanned(all)
	groupID, err := e.store.Projects.UpsertDuplicateGroup(ctx, uuid.New().String(), p.Name)
	if err != nil {
		return err
	}

	for _, m := range all {
		member := &catalog.CodeProjectDuplicateMember{
			ID:            uuid.New().String(),
			GroupID:       groupID,
			CodeProjectID: m.ID,
			DuplicateType: "DIFFERENT_VERSION",
			IsPrimary:     m.ID == primary.ID,
		}
		if err := e.store.Projects.AddDuplicateMember(ctx, member); err != nil {
			return err
		}
	}

	return nil
}

func othersPlusSelf(peers []catalog.CodeProject, self catalog.CodeProject) []catalog.CodeProject {
	all := make([]catalog.CodeProject, 0, len(peers)+1)
	all = append(all, self)
	for _, peer := range peers {
		if peer.ID != self.ID {
			all = append(all, peer)
		}
	}
	return all
}

func earliestScanned(projects []catalog.CodeProject) catalog.CodeProject {
	earliest := projects[0]
	for _, p := range projects[1:] {
		if p.ScannedAt.Before(earliest.ScannedAt) || (p.ScannedAt.Equal(earliest.ScannedAt) && p.ID < earliest.ID) {
			earliest = p
		}
	}
	return earliest
}

// jaccardSimilarity returns |a ∩ b| / |a ∪ b| over two hash sets, 1.0 when
// both are empty.
func jaccardSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	set := make(map[string]bool, len(a))
	for _, h := range a {
		set[h] = true
	}

	intersection := 0
	union := len(set)
	for _, h := range b {
		if set[h] {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

// diffComplexityBucket buckets the file-count delta between a group's
// primary project and one of its peers into the four coarse complexity
// tiers.
func diffComplexityBucket(primaryCount, peerCount int) string {
	if primaryCount == 0 {
		primaryCount = 1
	}
	delta := peerCount - primaryCount
	if delta < 0 {
		delta = -delta
	}
	pct := float64(delta) / float64(primaryCount)

	switch {
	case pct < 0.05:
		return "TRIVIAL"
	case pct < 0.15:
		return "SIMPLE"
	case pct < 0.30:
		return "MEDIUM"
	default:
		return "COMPLEX"
	}
}

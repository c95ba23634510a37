package ir

import (
	"testing"

	"pgregory.net/rapid"
)

// TestNewIDIsAlwaysUnique exercises the determinism/uniqueness invariant
// from spec §8: repeatedly minting IDs within one process never repeats.
func TestNewIDIsAlwaysUnique(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 200).Draw(rt, "n")
		seen := make(map[string]struct{}, n)
		for i := 0; i < n; i++ {
			id := NewID()
			if _, dup := seen[id]; dup {
				rt.Fatalf("NewID produced a duplicate: %s", id)
			}
			seen[id] = struct{}{}
		}
	})
}

// TestActorByIDReferenceClosure models the reference-closure invariant:
// every actor ID a campaign claims to contain resolves back to that exact
// actor, and no fabricated ID resolves to anything.
func TestActorByIDReferenceClosure(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfN(rapid.StringMatching(`[A-Za-z ]{1,12}`), 0, 10).Draw(rt, "names")
		c := NewCampaign()
		var ids []string
		for _, n := range names {
			a := NewActor(n, ActorTypeNPC)
			c.Actors = append(c.Actors, a)
			ids = append(ids, a.ID)
		}
		for i, id := range ids {
			found, ok := c.ActorByID(id)
			if !ok {
				rt.Fatalf("actor %d with id %s not found", i, id)
			}
			if found.Name != names[i] {
				rt.Fatalf("resolved actor name mismatch: want %s got %s", names[i], found.Name)
			}
		}
		if _, ok := c.ActorByID("not-a-real-id"); ok {
			rt.Fatalf("fabricated id unexpectedly resolved")
		}
	})
}

// TestStatsIsDeterministicOverRepeatedCalls models the determinism
// invariant: computing Stats() twice on an unmodified campaign yields
// identical results.
func TestStatsIsDeterministicOverRepeatedCalls(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		actorCount := rapid.IntRange(0, 20).Draw(rt, "actorCount")
		c := NewCampaign()
		for i := 0; i < actorCount; i++ {
			c.Actors = append(c.Actors, NewActor("actor", ActorTypePC))
		}
		first := c.Stats()
		second := c.Stats()
		if first != second {
			rt.Fatalf("Stats() not deterministic: %+v != %+v", first, second)
		}
	})
}

// TestConversionNotesNeverShrink models the note-preservation invariant:
// AddNote only ever grows the trail, regardless of category or content.
func TestConversionNotesNeverShrink(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		messages := rapid.SliceOfN(rapid.StringMatching(`[a-z ]{1,40}`), 0, 15).Draw(rt, "messages")
		c := NewCampaign()
		for _, m := range messages {
			before := len(c.ConversionNotes)
			c.AddNote(ConversionInfo, m, "")
			if len(c.ConversionNotes) != before+1 {
				rt.Fatalf("AddNote did not grow the trail by exactly one")
			}
		}
		if len(c.ConversionNotes) != len(messages) {
			rt.Fatalf("final trail length mismatch: want %d got %d", len(messages), len(c.ConversionNotes))
		}
	})
}

package feed

import (
	"errors"
	"slices"
	"testing"

	"github.com/andy11223386/akashicConnect/internal/model"
)

// =============================================================================
// TOGGLE TESTS
// =============================================================================

func TestToggle_AddsMissingActor(t *testing.T) {
	members, wasAdded := Toggle([]string{}, "alice")

	if !wasAdded {
		t.Error("expected wasAdded = true")
	}
	if !slices.Equal(members, []string{"alice"}) {
		t.Errorf("members = %v, want [alice]", members)
	}
}

func TestToggle_RemovesPresentActor(t *testing.T) {
	members, wasAdded := Toggle([]string{"alice"}, "alice")

	if wasAdded {
		t.Error("expected wasAdded = false")
	}
	if len(members) != 0 {
		t.Errorf("members = %v, want empty", members)
	}
}

func TestToggle_NilMembers(t *testing.T) {
	members, wasAdded := Toggle(nil, "bob")

	if !wasAdded || !slices.Equal(members, []string{"bob"}) {
		t.Errorf("Toggle(nil, bob) = (%v, %t), want ([bob], true)", members, wasAdded)
	}
}

func TestToggle_IsInvolution(t *testing.T) {
	sets := [][]string{
		{},
		{"alice"},
		{"bob", "carol"},
		{"alice", "bob", "carol"},
		{"dave", "alice", "erin"},
	}
	actors := []string{"alice", "bob", "zed"}

	for _, s := range sets {
		for _, actor := range actors {
			once, _ := Toggle(s, actor)
			twice, _ := Toggle(once, actor)
			if !slices.Equal(twice, s) {
				t.Errorf("Toggle(Toggle(%v, %q)) = %v, want %v", s, actor, twice, s)
			}
		}
	}
}

func TestToggle_SizeChangesByExactlyOne(t *testing.T) {
	sets := [][]string{{}, {"alice"}, {"alice", "bob"}, {"carol", "dave", "erin"}}

	for _, s := range sets {
		for _, actor := range []string{"alice", "erin", "frank"} {
			next, wasAdded := Toggle(s, actor)

			diff := len(next) - len(s)
			if wasAdded && diff != 1 {
				t.Errorf("add %q to %v changed size by %d", actor, s, diff)
			}
			if !wasAdded && diff != -1 {
				t.Errorf("remove %q from %v changed size by %d", actor, s, diff)
			}

			seen := make(map[string]bool)
			for _, m := range next {
				if seen[m] {
					t.Errorf("Toggle(%v, %q) produced duplicate %q", s, actor, m)
				}
				seen[m] = true
			}
		}
	}
}

func TestToggle_DoesNotMutateInput(t *testing.T) {
	input := make([]string, 2, 8) // spare capacity must not be written through
	input[0], input[1] = "alice", "bob"

	_, _ = Toggle(input, "carol")
	_, _ = Toggle(input, "alice")

	if !slices.Equal(input, []string{"alice", "bob"}) {
		t.Errorf("input mutated to %v", input)
	}
	if extended := input[:3]; extended[2] != "" {
		t.Errorf("backing array written: %v", extended)
	}
}

func TestToggle_PreservesOrderOfOthers(t *testing.T) {
	members, _ := Toggle([]string{"a", "b", "c", "d"}, "b")

	if !slices.Equal(members, []string{"a", "c", "d"}) {
		t.Errorf("members = %v, want [a c d]", members)
	}
}

// =============================================================================
// KIND TESTS
// =============================================================================

func TestParseKind(t *testing.T) {
	for _, s := range []string{"like", "retweet"} {
		k, err := ParseKind(s)
		if err != nil || string(k) != s {
			t.Errorf("ParseKind(%q) = (%q, %v)", s, k, err)
		}
	}

	_, err := ParseKind("bookmark")
	if !errors.Is(err, model.ErrValidation) {
		t.Errorf("ParseKind(bookmark) error = %v, want validation error", err)
	}
}

func TestKind_FieldAndMembers(t *testing.T) {
	tweet := &model.Tweet{Likes: []string{"alice"}, Retweets: []string{"bob"}}

	if Like.Field() != "likes" || Retweet.Field() != "retweets" {
		t.Errorf("fields = %q/%q", Like.Field(), Retweet.Field())
	}
	if !slices.Equal(Like.Members(tweet), []string{"alice"}) {
		t.Errorf("like members = %v", Like.Members(tweet))
	}
	if !slices.Equal(Retweet.Members(tweet), []string{"bob"}) {
		t.Errorf("retweet members = %v", Retweet.Members(tweet))
	}
}

func TestOpFor(t *testing.T) {
	if OpFor(true) != SetAdd || OpFor(false) != SetRemove {
		t.Error("OpFor mapping is wrong")
	}
	if SetAdd.String() != "add" || SetRemove.String() != "remove" {
		t.Error("SetOp names are wrong")
	}
}

package feed

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/andy11223386/akashicConnect/internal/model"
)

// Kind names a set-valued engagement field on a Tweet.
type Kind string

const (
	Like    Kind = "like"
	Retweet Kind = "retweet"
)

// ParseKind validates a kind received from the transport layer.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Like, Retweet:
		return Kind(s), nil
	}
	return "", model.NewValidationError("kind", fmt.Sprintf("unknown engagement kind %q", s))
}

// Field is the tweet document field holding the kind's membership set.
func (k Kind) Field() string {
	if k == Retweet {
		return "retweets"
	}
	return "likes"
}

// Members returns the current membership of the kind on t.
func (k Kind) Members(t *model.Tweet) []string {
	if k == Retweet {
		return t.Retweets
	}
	return t.Likes
}

// SetOp is the membership mutation a toggle resolves to.
type SetOp int

const (
	SetAdd SetOp = iota
	SetRemove
)

func (op SetOp) String() string {
	if op == SetRemove {
		return "remove"
	}
	return "add"
}

// OpFor maps a toggle outcome to the store mutation that persists it.
func OpFor(wasAdded bool) SetOp {
	if wasAdded {
		return SetAdd
	}
	return SetRemove
}

// Toggle flips actor's membership. When actor is present every occurrence is
// removed and wasAdded is false; otherwise actor is appended and wasAdded is
// true. The input slice is never modified and the order of other members is
// kept, so Toggle(Toggle(s, u)) equals s for any duplicate-free s.
func Toggle(members []string, actor string) (newMembers []string, wasAdded bool) {
	if lo.Contains(members, actor) {
		return lo.Without(members, actor), false
	}

	next := make([]string, 0, len(members)+1)
	next = append(next, members...)
	return append(next, actor), true
}

package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHand_AddCard(t *testing.T) {
	h := make(Hand, 0)
	h.AddCard(CardFromString("14s"))
	h.AddCard(CardFromString("3c"))
	assert.Equal(t, "14s,3c", CardsToString(h))
	assert.Equal(t, "♠A ♣3", h.String())
	assert.Equal(t, "♠A", h.FirstCard().String())
	assert.Nil(t, Hand{}.FirstCard())
}

func TestHand_Score(t *testing.T) {
	tests := []struct {
		cards string
		score int
		bust  bool
	}{
		{"", 0, false},
		{"2c,3d", 5, false},
		{"11c,12d", 20, false},
		{"14s,13h", 21, false},
		{"14s,6h", 17, false},
		{"14s,6h,10c", 17, false},
		{"14s,14h", 12, false},
		{"14s,14h,14d,14c", 14, false},
		{"14s,14h,9c", 21, false},
		{"14s,14h,9c,10d", 21, false},
		{"14s,14h,9c,10d,2s", 23, true},
		{"10s,10h,2c", 22, true},
		{"13s,12h,11c", 30, true},
		{"5s,6h,14c", 12, false},
	}

	for _, test := range tests {
		h := Hand(CardsFromString(test.cards))
		assert.Equal(t, test.score, h.Score(), test.cards)
		assert.Equal(t, test.bust, h.IsBust(), test.cards)
	}
}

func TestHand_ScoreSingleAce(t *testing.T) {
	a := assert.New(t)

	// ace counts as 11 while the total stays at or below 21
	for other := 2; other <= 10; other++ {
		h := Hand{CardFromString("14s"), &Card{Rank: other, Suit: Hearts}}
		a.Equal(11+other, h.Score())
	}

	// once 11 would bust, the ace is worth 1
	h := Hand(CardsFromString("14s,9h,5c"))
	a.Equal(15, h.Score())
}

func TestHand_ScorePermutation(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		n := 2 + r.Intn(6)
		h := make(Hand, n)
		for j := range h {
			h[j] = &Card{Rank: 2 + r.Intn(13), Suit: Spades}
		}

		expected := h.Score()
		shuffled := h.Clone()
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		assert.Equal(t, expected, shuffled.Score(), CardsToString(h))
	}
}

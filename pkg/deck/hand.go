package deck

import (
	"strings"
)

// Hand represents a collection of cards
type Hand []*Card

// AddCard adds a card to the hand
func (h *Hand) AddCard(card *Card) {
	*h = append(*h, card)
}

// Score returns the blackjack total of the hand
// Aces count as 11 and are demoted to 1, one at a time, while the total is over 21.
func (h Hand) Score() int {
	score := 0
	aces := 0
	for _, card := range h {
		score += card.Value()
		if card.IsAce() {
			aces++
		}
	}

	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}

	return score
}

// IsBust returns true if the score is over 21
func (h Hand) IsBust() bool {
	return h.Score() > 21
}

// FirstCard returns the first card in the hand or nil if the cards are empty
func (h Hand) FirstCard() *Card {
	if len(h) == 0 {
		return nil
	}

	return h[0]
}

// String returns the cards joined by a space, i.e., "♠A ♥10"
func (h Hand) String() string {
	c := make([]string, len(h))
	for i, card := range h {
		c[i] = card.String()
	}

	return strings.Join(c, " ")
}

// Clone returns a clone of the hand
func (h Hand) Clone() Hand {
	h2 := make(Hand, len(h))
	copy(h2, h)

	return h2
}

package deck

import (
	"blackjack-server/internal/rng"
)

// Deck represents a playing deck
// When the deck runs out it is rebuilt and reshuffled, so Draw() never fails.
type Deck struct {
	Cards []*Card `json:"cards"`
	rng   rng.Generator
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New(generator rng.Generator) *Deck {
	d := &Deck{
		rng: generator,
	}

	d.buildDeck()
	return d
}

// NewShuffled returns a new deck of 52 cards in random order
func NewShuffled(generator rng.Generator) *Deck {
	d := New(generator)
	d.Shuffle()

	return d
}

func (d *Deck) buildDeck() {
	cards := make([]*Card, 0, 52)
	for _, suit := range []Suit{Clubs, Diamonds, Hearts, Spades} {
		for rank := 2; rank <= Ace; rank++ {
			cards = append(cards, &Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	d.Cards = cards
}

// Shuffle will rebuild the deck and shuffle all 52 cards
func (d *Deck) Shuffle() {
	// we always want to shuffle from a full deck
	if len(d.Cards) != 52 {
		d.buildDeck()
	}

	for j := len(d.Cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Draw will draw the next card
// If there are no more cards, the deck is replaced with a freshly shuffled one first.
func (d *Deck) Draw() *Card {
	if len(d.Cards) == 0 {
		d.buildDeck()
		d.Shuffle()
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}

package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeck() *Deck {
	return newDeck(rand.New(rand.NewPCG(3, 4)))
}

func TestDeck_PrepareExcludesCards(t *testing.T) {
	d := newTestDeck()
	all := makeCards(30)

	exclude := map[Card]struct{}{all[0]: {}, all[1]: {}}
	d.prepare(all, exclude, 20)

	assert.Equal(t, 28, d.DrawSize())
	assert.Equal(t, 2, d.DiscardSize())
	assert.NotContains(t, d.drawPile, all[0])
	assert.NotContains(t, d.drawPile, all[1])
}

func TestDeck_PrepareFallsBackToWholePool(t *testing.T) {
	d := newTestDeck()
	all := makeCards(20)

	exclude := make(map[Card]struct{})
	for _, c := range all[:5] {
		exclude[c] = struct{}{}
	}
	d.prepare(all, exclude, 20)

	assert.Equal(t, 20, d.DrawSize())
	assert.Equal(t, 0, d.DiscardSize())
}

func TestDeck_DrawReshufflesDiscard(t *testing.T) {
	d := newTestDeck()
	d.prepare(makeCards(2), nil, 0)

	first, ok := d.draw()
	require.True(t, ok)
	second, ok := d.draw()
	require.True(t, ok)

	_, ok = d.draw()
	assert.False(t, ok, "both piles empty")

	d.retire([]Card{first, second})
	assert.Equal(t, 2, d.DiscardSize())

	got := make([]Card, 0, 2)
	for i := 0; i < 2; i++ {
		c, ok := d.draw()
		require.True(t, ok)
		got = append(got, c)
	}

	assert.ElementsMatch(t, []Card{first, second}, got)
	assert.Equal(t, 0, d.DiscardSize())
}

func TestDeck_RetireIsIdempotent(t *testing.T) {
	d := newTestDeck()

	d.retire([]Card{"a", "b"})
	d.retire([]Card{"a"})
	d.putBack("b")

	assert.Equal(t, 2, d.DiscardSize())
	assert.Len(t, d.takePlayed(), 2)
	assert.Empty(t, d.takePlayed())
}

func TestHandSet_RefillKeepsExistingCards(t *testing.T) {
	d := newTestDeck()
	d.prepare(makeCards(25), nil, 20)

	hs := newHandSet()
	hs.dealInitial(d, []string{"a", "b"}, HAND_SIZE)
	require.Equal(t, HAND_SIZE, hs.Size("a"))
	require.Equal(t, HAND_SIZE, hs.Size("b"))

	kept := hs.Hand("a")[1:]
	played := hs.Hand("a")[0]
	require.True(t, hs.take("a", played))
	require.False(t, hs.take("a", played))

	hs.refill(d, []string{"a", "b"}, HAND_SIZE)

	assert.Equal(t, HAND_SIZE, hs.Size("a"))
	assert.Equal(t, HAND_SIZE, hs.Size("b"))
	for _, c := range kept {
		assert.True(t, hs.has("a", c))
	}
	assert.Equal(t, 4, d.DrawSize())
}

func TestHandSet_ExhaustedPoolRefillsFromDiscard(t *testing.T) {
	d := newTestDeck()
	d.prepare(makeCards(HAND_SIZE), nil, 2*HAND_SIZE)

	hs := newHandSet()
	hs.dealInitial(d, []string{"b", "c"}, HAND_SIZE)
	require.Equal(t, 0, d.DrawSize())
	require.Equal(t, HAND_SIZE, hs.Size("b"))
	require.Equal(t, 0, hs.Size("c"))

	card := hs.Hand("b")[0]
	hs.take("b", card)
	d.retire([]Card{card})

	hs.refill(d, []string{"b", "c"}, HAND_SIZE)

	assert.Equal(t, HAND_SIZE, hs.Size("b"))
	assert.Equal(t, 0, hs.Size("c"))
	assert.True(t, hs.has("b", card))
	assert.Equal(t, HAND_SIZE, hs.Total())
}

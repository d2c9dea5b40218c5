package cardpool

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"situations-party-be/internal/service/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
situations:
  - "老板突然走到你身后"
  - "第一次见对象的父母"
  - "老板突然走到你身后"
answers:
  - "假装在打电话"
  - "  立刻装睡  "
  - ""
  - "假装在打电话"
  - "夸他的发型"
`

func TestParse_NormalizesEntries(t *testing.T) {
	p, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, []game.Situation{"老板突然走到你身后", "第一次见对象的父母"}, p.Situations())
	assert.Equal(t, []game.Card{"假装在打电话", "立刻装睡", "夸他的发型"}, p.Cards())
}

func TestParse_RejectsEmptyPools(t *testing.T) {
	_, err := Parse([]byte("situations: []\nanswers: [a]\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("situations: [a]\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("situations: [\n"))
	assert.Error(t, err)
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, p.Cards(), 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCards_ReturnsCopy(t *testing.T) {
	p, err := New([]string{"s"}, []string{"a", "b"})
	require.NoError(t, err)

	cards := p.Cards()
	cards[0] = "changed"

	assert.Equal(t, game.Card("a"), p.Cards()[0])
}

func TestNextSituation_SkipsUsed(t *testing.T) {
	p, err := New([]string{"s1", "s2", "s3"}, []string{"a"})
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 1))
	used := map[game.Situation]struct{}{"s1": {}, "s3": {}}

	for i := 0; i < 10; i++ {
		s, ok := p.NextSituation(used, rng)
		require.True(t, ok)
		assert.Equal(t, game.Situation("s2"), s)
	}

	used["s2"] = struct{}{}
	_, ok := p.NextSituation(used, rng)
	assert.False(t, ok)
}

func TestPool_DrivesSession(t *testing.T) {
	p, err := New([]string{"s1", "s2"}, []string{"a", "b", "c", "d"})
	require.NoError(t, err)

	s := game.NewSession("room", p, p, game.WithRand(rand.New(rand.NewPCG(5, 5))))
	_, err = s.AddPlayer("u1", "one")
	require.NoError(t, err)
	_, err = s.AddPlayer("u2", "two")
	require.NoError(t, err)

	require.NoError(t, s.Start())

	snap := s.Snapshot("u2")
	assert.Len(t, snap.Hand, 4)
	assert.Contains(t, []game.Situation{"s1", "s2"}, snap.Situation)
}

func TestLoad_BundledCards(t *testing.T) {
	p, err := Load(filepath.Join("..", "..", "..", "cards.yaml"))
	require.NoError(t, err)

	assert.NotEmpty(t, p.Situations())
	assert.GreaterOrEqual(t, len(p.Cards()), game.HAND_SIZE*2)
}

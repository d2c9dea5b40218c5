package game

import (
	"math/rand/v2"

	"go.uber.org/zap"
)

// Deck 管理一个房间内回答卡的流转：摸牌堆 + 弃牌堆
type Deck struct {
	drawPile    []Card
	discardPile []Card
	inDiscard   map[Card]struct{}

	// 本局打出过的牌，下一局开局时优先排除
	played map[Card]struct{}

	rng *rand.Rand
}

func newDeck(rng *rand.Rand) *Deck {
	return &Deck{
		drawPile:    make([]Card, 0),
		discardPile: make([]Card, 0),
		inDiscard:   make(map[Card]struct{}),
		played:      make(map[Card]struct{}),
		rng:         rng,
	}
}

// prepare 用 all 减去 exclude 重建摸牌堆，被排除的牌放入弃牌堆。
// 如果剩余的牌不足 need 张，则清空排除集合，用整副牌重建。
func (d *Deck) prepare(all []Card, exclude map[Card]struct{}, need int) {
	d.drawPile = make([]Card, 0, len(all))
	d.discardPile = make([]Card, 0)
	d.inDiscard = make(map[Card]struct{})

	for _, c := range all {
		if _, ok := exclude[c]; ok {
			d.putBack(c)
			continue
		}
		d.drawPile = append(d.drawPile, c)
	}

	if len(d.drawPile) < need && len(d.discardPile) > 0 {
		zap.L().Debug(
			"排除后的牌不足以发牌，改用整副牌",
			zap.Int("draw_pile", len(d.drawPile)),
			zap.Int("need", need),
		)

		d.drawPile = append(d.drawPile[:0], all...)
		d.discardPile = d.discardPile[:0]
		d.inDiscard = make(map[Card]struct{})
	}

	d.shuffle(d.drawPile)
}

// draw 摸一张牌。摸牌堆为空时把弃牌堆洗入摸牌堆，两者都空则返回 false。
func (d *Deck) draw() (Card, bool) {
	if len(d.drawPile) == 0 {
		if len(d.discardPile) == 0 {
			return "", false
		}

		zap.L().Debug(
			"摸牌堆已空，弃牌堆重新洗牌",
			zap.Int("discard_pile", len(d.discardPile)),
		)

		d.drawPile, d.discardPile = d.discardPile, make([]Card, 0)
		d.inDiscard = make(map[Card]struct{})
		d.shuffle(d.drawPile)
	}

	last := len(d.drawPile) - 1
	c := d.drawPile[last]
	d.drawPile = d.drawPile[:last]

	return c, true
}

// retire 把一轮结束后的回答放入弃牌堆，并记为本局已打出
func (d *Deck) retire(cards []Card) {
	for _, c := range cards {
		d.putBack(c)
		d.played[c] = struct{}{}
	}
}

// putBack 把牌放回弃牌堆，已在弃牌堆中的牌不会重复
func (d *Deck) putBack(cards ...Card) {
	for _, c := range cards {
		if _, ok := d.inDiscard[c]; ok {
			continue
		}
		d.inDiscard[c] = struct{}{}
		d.discardPile = append(d.discardPile, c)
	}
}

// takePlayed 取出并清空本局的打出记录
func (d *Deck) takePlayed() map[Card]struct{} {
	played := d.played
	d.played = make(map[Card]struct{})

	return played
}

func (d *Deck) shuffle(cards []Card) {
	d.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

func (d *Deck) DrawSize() int {
	return len(d.drawPile)
}

func (d *Deck) DiscardSize() int {
	return len(d.discardPile)
}

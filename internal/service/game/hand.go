package game

// HandSet 记录每位玩家当前持有的手牌
type HandSet struct {
	hands map[string][]Card
}

func newHandSet() *HandSet {
	return &HandSet{
		hands: make(map[string][]Card),
	}
}

// dealInitial 给每位玩家摸 size 张牌，牌不够时能摸多少摸多少
func (hs *HandSet) dealInitial(deck *Deck, userIDs []string, size int) {
	for _, id := range userIDs {
		for i := 0; i < size; i++ {
			c, ok := deck.draw()
			if !ok {
				break
			}
			hs.hands[id] = append(hs.hands[id], c)
		}
	}
}

// refill 逐张补牌直到 size 张或者牌堆耗尽，不替换已有手牌
func (hs *HandSet) refill(deck *Deck, userIDs []string, size int) {
	for _, id := range userIDs {
		for len(hs.hands[id]) < size {
			c, ok := deck.draw()
			if !ok {
				return
			}
			hs.hands[id] = append(hs.hands[id], c)
		}
	}
}

func (hs *HandSet) has(userID string, card Card) bool {
	for _, c := range hs.hands[userID] {
		if c == card {
			return true
		}
	}

	return false
}

// take 从手牌中移除一张牌
func (hs *HandSet) take(userID string, card Card) bool {
	hand := hs.hands[userID]
	for i, c := range hand {
		if c == card {
			hs.hands[userID] = append(hand[:i], hand[i+1:]...)
			return true
		}
	}

	return false
}

// collect 收回某位玩家的全部手牌
func (hs *HandSet) collect(userID string) []Card {
	hand := hs.hands[userID]
	delete(hs.hands, userID)

	return hand
}

// Hand 返回手牌副本
func (hs *HandSet) Hand(userID string) []Card {
	hand := hs.hands[userID]
	out := make([]Card, len(hand))
	copy(out, hand)

	return out
}

func (hs *HandSet) Size(userID string) int {
	return len(hs.hands[userID])
}

func (hs *HandSet) Total() int {
	total := 0
	for _, hand := range hs.hands {
		total += len(hand)
	}

	return total
}

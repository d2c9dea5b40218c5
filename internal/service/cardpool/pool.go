package cardpool

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"situations-party-be/internal/service/game"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Pool 是进程内共享的只读题库，加载后不再修改
type Pool struct {
	situations []game.Situation
	answers    []game.Card
}

type poolFile struct {
	Situations []string `yaml:"situations"`
	Answers    []string `yaml:"answers"`
}

func New(situations, answers []string) (*Pool, error) {
	p := &Pool{
		situations: make([]game.Situation, 0, len(situations)),
		answers:    make([]game.Card, 0, len(answers)),
	}

	for _, s := range normalize(situations) {
		p.situations = append(p.situations, game.Situation(s))
	}
	for _, a := range normalize(answers) {
		p.answers = append(p.answers, game.Card(a))
	}

	if len(p.situations) == 0 {
		return nil, errors.New("题库中没有情境")
	}
	if len(p.answers) == 0 {
		return nil, errors.New("题库中没有回答卡")
	}

	return p, nil
}

// Load 从 YAML 文件加载题库
func Load(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取题库失败: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Pool, error) {
	var f poolFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("解析题库失败: %w", err)
	}

	p, err := New(f.Situations, f.Answers)
	if err != nil {
		return nil, err
	}

	zap.L().Info(
		"题库加载完成",
		zap.Int("situations", len(p.situations)),
		zap.Int("answers", len(p.answers)),
	)

	return p, nil
}

// normalize 去掉首尾空白、空行和重复项，保持原有顺序
func normalize(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}

	return out
}

// Cards 返回整副回答卡的副本
func (p *Pool) Cards() []game.Card {
	out := make([]game.Card, len(p.answers))
	copy(out, p.answers)

	return out
}

// NextSituation 在 used 之外随机选一个情境，全部用过时返回 false
func (p *Pool) NextSituation(used map[game.Situation]struct{}, rng *rand.Rand) (game.Situation, bool) {
	candidates := make([]game.Situation, 0, len(p.situations))
	for _, s := range p.situations {
		if _, ok := used[s]; !ok {
			candidates = append(candidates, s)
		}
	}

	if len(candidates) == 0 {
		return "", false
	}

	return candidates[rng.IntN(len(candidates))], true
}

func (p *Pool) Situations() []game.Situation {
	out := make([]game.Situation, len(p.situations))
	copy(out, p.situations)

	return out
}

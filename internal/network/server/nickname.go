package server

import (
	"math/rand/v2"
)

// 昵称词库
var (
	adjectives = []string{
		"勇敢的", "聪明的", "快乐的", "神秘的", "酷炫的",
		"优雅的", "可爱的", "威武的", "沉稳的", "活泼的",
		"机智的", "潇洒的", "温柔的", "霸气的", "淡定的",
		"闪亮的", "迷人的", "傲娇的", "呆萌的", "高冷的",
	}

	nouns = []string{
		"大鹅", "白鹅", "灰鹅", "天鹅", "雪鹅",
		"小鸭", "绿头鸭", "麻鸭", "番鸭", "野鸭",
		"企鹅", "海鸥", "白鹭", "丹顶鹤", "火烈鸟",
		"鸳鸯", "翠鸟", "信天翁", "鹈鹕", "琵鹭",
	}
)

// GenerateNickname 生成随机昵称
func GenerateNickname() string {
	adj := adjectives[rand.IntN(len(adjectives))]
	noun := nouns[rand.IntN(len(nouns))]
	return adj + noun
}

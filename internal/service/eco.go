package service

// 环保估算：每个可重复使用的水瓶替代一次性瓶装水
const (
	DefaultBottleSizeML = 500
	CO2PerBottleKg      = 0.082
)

// BottlesSaved 等价的水瓶数；瓶容量非正时返回 0
func BottlesSaved(totalML, bottleSizeML float64) float64 {
	if bottleSizeML <= 0 {
		return 0
	}
	return totalML / bottleSizeML
}

// CO2SavedKg 估算节省的二氧化碳（公斤）
func CO2SavedKg(bottles float64) float64 {
	return bottles * CO2PerBottleKg
}

// ProgressRatio 今日完成比例，封顶 1；目标非正时按 1 毫升计
func ProgressRatio(consumedML, goalML int) float64 {
	if goalML < 1 {
		goalML = 1
	}
	p := float64(consumedML) / float64(goalML)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

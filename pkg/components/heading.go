package components

// HeadingComponent 载具朝向与掉头动画
// 只由 OrientationSystem 写入
type HeadingComponent struct {
	// Heading 当前朝向角（弧度，(-π, π]）
	Heading float64

	// IsReversing 对外报告的倒行标志，在掉头动画过半时翻转
	IsReversing bool

	// TargetReversing 期望的倒行状态
	TargetReversing bool

	// TurnFromReversing 掉头开始时的倒行状态
	TurnFromReversing bool

	// TurnBlend 掉头进度 [0,1]，1 表示没有进行中的掉头
	TurnBlend float64

	// TurnDelta 掉头的有符号旋转量（±π）
	TurnDelta float64

	// Initialized 首帧直接对齐切线方向
	Initialized bool

	// Elapsed 累计时间，用于起伏与横摇
	Elapsed float64

	// Bob 垂直起伏，Roll 横摇角（弧度），纯装饰
	Bob  float64
	Roll float64
}

// IsTurning 是否正在掉头
func (h *HeadingComponent) IsTurning() bool {
	return h.TurnBlend < 1
}

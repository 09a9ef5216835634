package components

// NoWaypoint 表示"没有航点"（未停靠、无待跳转目标等）
const NoWaypoint = -1

// NavigationComponent 航行进度状态
//
// 所有字段只由 ProgressSystem 写入（输入处理函数与 Update 都属于它），
// 其他系统只读。
type NavigationComponent struct {
	// Current 平滑后的当前进度 [0,1]
	Current float64

	// Target 目标进度 [0,1]
	Target float64

	// ScrollAccum 累积滚动量，Target = ScrollAccum / 滚动总量
	ScrollAccum float64

	// Direction 最近一次输入的行进方向：+1 向前，-1 向后
	Direction int

	// Zoom 用户缩放倍率
	Zoom float64

	// HasScrolled 是否已有过航行输入（触发开场拉远）
	HasScrolled bool

	// IntroRate 开场拉远的缩放速率（每秒），0 表示没有进行中的拉远
	IntroRate float64

	// DockAccum 停靠时累积的滚动量（绝对值）
	DockAccum float64

	// ReleaseSeq 每请求一次离开停靠加一，ArrivalSystem 比较序号处理
	ReleaseSeq int

	// PendingJump 跳转目标航点，NoWaypoint 表示无
	PendingJump int

	// CurrentWaypoint 当前航点指针（跳转时立即更新，停靠时同步）
	CurrentWaypoint int

	// SeenDock 上一帧观察到的停靠航点，用于识别新的停靠
	SeenDock int

	// Clock 累计运行时间（秒），逐站模式的冷却基准
	Clock float64

	// LastStepAt 上一次逐站跳转的时间
	LastStepAt float64
}

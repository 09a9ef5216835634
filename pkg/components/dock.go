package components

// DockComponent 到达检测状态机
//
// DockedIndex 为 NoWaypoint 时处于航行状态，否则停靠在该航点。
// 只由 ArrivalSystem 写入。
type DockComponent struct {
	DockedIndex int

	// LastExited 最近离开的航点，在载具远离到重新布防半径之前不会再次停靠
	LastExited int

	// HandledRelease 已处理的离开请求序号
	HandledRelease int
}

// IsDocked 是否处于停靠状态
func (d *DockComponent) IsDocked() bool {
	return d.DockedIndex != NoWaypoint
}

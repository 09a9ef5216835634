package route

import "errors"

var (
	// ErrInvalidInput 航点列表为空等无法构建航线的输入
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateDockOrder 停靠参数表不是严格递增的（航点过密或偏移过大）
	ErrDegenerateDockOrder = errors.New("degenerate dock order")
)

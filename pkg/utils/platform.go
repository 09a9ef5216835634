//go:build !mobile

package utils

import "os"

// IsMobile 检测当前是否在移动设备上运行
// 桌面端编译时返回 false
// 设置环境变量 JOURNEY_MOBILE_EMULATE=1 可在桌面上使用移动端镜头参数调试
func IsMobile() bool {
	return os.Getenv("JOURNEY_MOBILE_EMULATE") == "1"
}

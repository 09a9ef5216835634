//go:build mobile

package utils

// IsMobile 移动端构建始终使用移动端机位与初始缩放
func IsMobile() bool {
	return true
}

//go:build !android

package utils

// EnsureStorageDir 桌面端与 iOS 由 gdata 自行创建存档目录
func EnsureStorageDir() error {
	return nil
}

// GetStoragePath 非 Android 平台没有需要预先准备的目录
func GetStoragePath() string {
	return ""
}

package config

// 屏幕布局常量
// 航程场景是俯视投影：世界 XZ 平面映射到屏幕，镜头到注视点的距离决定缩放。

const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 960

	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 640

	// PixelsPerUnitAtReference 镜头距离为 ReferenceCameraDistance 时每个世界单位对应的像素
	PixelsPerUnitAtReference = 2.4

	// ReferenceCameraDistance 投影参考距离
	ReferenceCameraDistance = 45.0

	// MinPixelsPerUnit / MaxPixelsPerUnit 投影比例范围
	MinPixelsPerUnit = 0.5
	MaxPixelsPerUnit = 12.0

	// WaypointPickRadius 点击航点的命中半径（像素）
	WaypointPickRadius = 28.0

	// DetailPanelWidth / DetailPanelHeight 停靠详情面板尺寸
	DetailPanelWidth  = 300
	DetailPanelHeight = 96

	// DetailPanelMargin 面板距屏幕边缘
	DetailPanelMargin = 16
)

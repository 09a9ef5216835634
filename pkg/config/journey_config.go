package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/decker502/journey/pkg/route"
	"github.com/decker502/journey/pkg/types"
)

// ProgressPolicy 进度推进策略
const (
	// PolicyExponential 指数平滑：每帧移动剩余差值的固定比例，缓出但无速度上限
	PolicyExponential = "exponential"

	// PolicyConstant 匀速追赶：每秒最多移动 Speed，航点间耗时可预测
	PolicyConstant = "constant"
)

// ScrollMode 滚动映射方式
const (
	// ScrollContinuous 连续航行：滚动量累积为进度
	ScrollContinuous = "continuous"

	// ScrollStep 逐站跳转：每次滚动跳到下一个/上一个航点，带冷却
	ScrollStep = "step"
)

// JourneyConfig 航程配置
//
// 所有半径、距离带、时长、偏移都来自配置，同一个引擎通过参数覆盖不同的手感。
//
// 配置文件位置: data/journey.yaml
type JourneyConfig struct {
	Path        PathConfig        `yaml:"path"`
	Docks       DockConfig        `yaml:"docks"`
	Progress    ProgressConfig    `yaml:"progress"`
	Zoom        ZoomConfig        `yaml:"zoom"`
	Arrival     ArrivalConfig     `yaml:"arrival"`
	Orientation OrientationConfig `yaml:"orientation"`
	Camera      CameraConfig      `yaml:"camera"`
	Layout      LayoutConfig      `yaml:"layout"`
	Assets      AssetConfig       `yaml:"assets"`

	// Waypoints 有序航点列表，未指定 position 的航点由 Layout 生成位置
	Waypoints []WaypointConfig `yaml:"waypoints" validate:"dive"`
}

// PathConfig 航线构建参数
type PathConfig struct {
	LateralOffset      float64 `yaml:"lateralOffset" validate:"gte=0"`
	ApproachOffset     float64 `yaml:"approachOffset" validate:"gte=0"`
	LeadIn             float64 `yaml:"leadIn" validate:"gte=0"`
	LeadOut            float64 `yaml:"leadOut" validate:"gte=0"`
	CruiseHeight       float64 `yaml:"cruiseHeight"`
	Tension            float64 `yaml:"tension" validate:"gte=0,lte=1"`
	ArcLengthDivisions int     `yaml:"arcLengthDivisions" validate:"gte=50"`
}

// DockConfig 停靠参数解析
type DockConfig struct {
	// Offset 停靠锚点相对航点的偏移（停靠侧）
	Offset types.Vec3 `yaml:"offset"`

	// Samples 航线采样数
	Samples int `yaml:"samples" validate:"gte=100"`
}

// ProgressConfig 进度控制
type ProgressConfig struct {
	Policy string `yaml:"policy" validate:"oneof=exponential constant"`

	// Smoothing 指数平滑速率（1/秒）
	Smoothing float64 `yaml:"smoothing" validate:"gt=0"`

	// Speed 匀速追赶速度（进度/秒）
	Speed float64 `yaml:"speed" validate:"gt=0"`

	// SnapEpsilon 进度差小于该值时直接对齐目标
	SnapEpsilon float64 `yaml:"snapEpsilon" validate:"gt=0,lt=0.01"`

	// SegmentSize 每段的滚动量（像素），总量为 SegmentSize × (航点数 + 1)
	SegmentSize float64 `yaml:"segmentSize" validate:"gt=0"`

	ScrollMode string `yaml:"scrollMode" validate:"oneof=continuous step"`

	// ScrollGain 滚轮增量倍率（鼠标滚轮）
	ScrollGain float64 `yaml:"scrollGain" validate:"gt=0"`

	// TrackpadThreshold 原始增量绝对值小于该值的事件视为触控板，0 表示不区分
	TrackpadThreshold float64 `yaml:"trackpadThreshold" validate:"gte=0"`

	// TrackpadGain 触控板事件的增量倍率
	TrackpadGain float64 `yaml:"trackpadGain" validate:"gt=0"`

	// MinScrollDelta 乘以倍率后小于该值的滚轮事件被忽略
	MinScrollDelta float64 `yaml:"minScrollDelta" validate:"gte=0"`

	// MaxScrollDelta 单次滚轮事件的原始增量上限（像素），在乘以倍率之前限制
	MaxScrollDelta float64 `yaml:"maxScrollDelta" validate:"gt=0"`

	TouchGain     float64 `yaml:"touchGain" validate:"gt=0"`
	MaxTouchDelta float64 `yaml:"maxTouchDelta" validate:"gt=0"`

	// ReleaseThreshold 停靠时需要累积的滚动量才能离开
	ReleaseThreshold float64 `yaml:"releaseThreshold" validate:"gt=0"`

	// StepCooldown 逐站模式下两次跳转的最小间隔（秒）
	StepCooldown float64 `yaml:"stepCooldown" validate:"gte=0"`

	// HoldWhileTurning 掉头动画期间暂停推进
	HoldWhileTurning bool `yaml:"holdWhileTurning"`

	// SnapToDock 到达航点时把目标进度钉在停靠参数上
	SnapToDock bool `yaml:"snapToDock"`
}

// ZoomConfig 用户缩放
type ZoomConfig struct {
	Min           float64 `yaml:"min" validate:"gt=0"`
	Max           float64 `yaml:"max" validate:"gtfield=Min"`
	Initial       float64 `yaml:"initial" validate:"gt=0"`
	InitialMobile float64 `yaml:"initialMobile" validate:"gt=0"`

	// WheelGain Ctrl/Meta + 滚轮时每像素的缩放变化
	WheelGain float64 `yaml:"wheelGain" validate:"gt=0"`

	// PinchGain 双指距离每像素的缩放变化
	PinchGain float64 `yaml:"pinchGain" validate:"gt=0"`

	// IntroTarget 首次航行后缩放拉远到的值，0 表示关闭开场拉远
	IntroTarget float64 `yaml:"introTarget" validate:"gte=0"`

	// IntroDuration 开场拉远的时长（秒）
	IntroDuration float64 `yaml:"introDuration" validate:"gt=0"`
}

// ArrivalConfig 到达检测半径（水平距离）
type ArrivalConfig struct {
	Radius          float64 `yaml:"radius" validate:"gt=0"`
	DepartureRadius float64 `yaml:"departureRadius" validate:"gtfield=Radius"`
	RearmRadius     float64 `yaml:"rearmRadius" validate:"gtfield=DepartureRadius"`
}

// OrientationConfig 朝向控制
type OrientationConfig struct {
	// AssetOffsetDegrees 模型朝向修正
	AssetOffsetDegrees float64 `yaml:"assetOffsetDegrees"`

	// TurnDuration 掉头动画时长（秒）
	TurnDuration float64 `yaml:"turnDuration" validate:"gt=0"`

	// Smoothing 非掉头时的朝向平滑速率（1/秒）
	Smoothing float64 `yaml:"smoothing" validate:"gt=0"`

	// MaxTurnRate 朝向角速度上限（弧度/秒）
	MaxTurnRate float64 `yaml:"maxTurnRate" validate:"gt=0"`

	BobAmplitude  float64 `yaml:"bobAmplitude" validate:"gte=0"`
	BobFrequency  float64 `yaml:"bobFrequency" validate:"gte=0"`
	RollAmplitude float64 `yaml:"rollAmplitude" validate:"gte=0"`
	RollFrequency float64 `yaml:"rollFrequency" validate:"gte=0"`
}

// ZoomBand 自动缩放距离带：距最近航点小于 MaxDistance 时使用 Zoom
type ZoomBand struct {
	MaxDistance float64 `yaml:"maxDistance" validate:"gt=0"`
	Zoom        float64 `yaml:"zoom" validate:"gt=0"`
}

// CameraRig 跟随镜头的机位参数
type CameraRig struct {
	Height      float64 `yaml:"height" validate:"gt=0"`
	Distance    float64 `yaml:"distance" validate:"gt=0"`
	TrailOffset float64 `yaml:"trailOffset" validate:"gte=0"`

	// FollowRate 镜头追随合成位姿的速率（1/秒），0 表示不平滑
	FollowRate float64 `yaml:"followRate" validate:"gte=0"`
}

// CameraConfig 镜头合成
type CameraConfig struct {
	Rig       CameraRig `yaml:"rig"`
	MobileRig CameraRig `yaml:"mobileRig"`

	// LookOffset 跟随模式下注视点相对载具的高度偏移
	LookOffset float64 `yaml:"lookOffset"`

	// FocusOffset 聚焦模式下镜头相对航点的偏移
	FocusOffset types.Vec3 `yaml:"focusOffset"`

	// FocusSeekDuration / FocusReleaseDuration 聚焦/释放的过渡时长（秒）
	FocusSeekDuration    float64 `yaml:"focusSeekDuration" validate:"gt=0"`
	FocusReleaseDuration float64 `yaml:"focusReleaseDuration" validate:"gt=0"`

	ZoomBands []ZoomBand `yaml:"zoomBands" validate:"min=1,dive"`
	FarZoom   float64    `yaml:"farZoom" validate:"gt=0"`

	// AutoZoomRate 自动缩放平滑速率（1/秒）
	AutoZoomRate float64 `yaml:"autoZoomRate" validate:"gt=0"`

	// DefaultPosition / DefaultLookAt 无航点时的静态镜头
	DefaultPosition types.Vec3 `yaml:"defaultPosition"`
	DefaultLookAt   types.Vec3 `yaml:"defaultLookAt"`
}

// LayoutConfig 默认航点布局
type LayoutConfig struct {
	Seed      int64     `yaml:"seed"`
	OriginX   float64   `yaml:"originX"`
	Spacing   float64   `yaml:"spacing" validate:"gt=0"`
	Lanes     []float64 `yaml:"lanes" validate:"min=1"`
	Jitter    float64   `yaml:"jitter" validate:"gte=0"`
	Height    float64   `yaml:"height"`
	EndHeight float64   `yaml:"endHeight"`
}

// AssetConfig 装饰性贴图（可选）
type AssetConfig struct {
	// Dir 贴图目录，为空时使用内置贴图
	Dir          string `yaml:"dir"`
	VehicleImage string `yaml:"vehicleImage"`
	IslandImage  string `yaml:"islandImage"`
}

// WaypointConfig 航点条目，元数据对导航透明
type WaypointConfig struct {
	Title    string      `yaml:"title" validate:"required"`
	Time     string      `yaml:"time"`
	Day      int         `yaml:"day" validate:"gte=0"`
	Position *types.Vec3 `yaml:"position,omitempty"`
}

// WaypointMeta 随停靠事件透传给界面的元数据
type WaypointMeta struct {
	Title string
	Time  string
	Day   int
}

// DefaultJourneyConfig 默认航程参数
func DefaultJourneyConfig() *JourneyConfig {
	return &JourneyConfig{
		Path: PathConfig{
			LateralOffset:      25,
			ApproachOffset:     12,
			LeadIn:             80,
			LeadOut:            30,
			CruiseHeight:       5,
			Tension:            0.5,
			ArcLengthDivisions: 2000,
		},
		Docks: DockConfig{
			Offset:  types.V3(0, 5, 25),
			Samples: 2000,
		},
		Progress: ProgressConfig{
			Policy:            PolicyExponential,
			Smoothing:         1.83, // 60fps 下每帧 3%
			Speed:             0.12,
			SnapEpsilon:       1e-4,
			SegmentSize:       400,
			ScrollMode:        ScrollContinuous,
			ScrollGain:        1.5,
			TrackpadThreshold: 0,
			TrackpadGain:      1.5,
			MinScrollDelta:    0.5,
			MaxScrollDelta:    8,
			TouchGain:         2,
			MaxTouchDelta:     15,
			ReleaseThreshold:  100,
			StepCooldown:      0.6,
			HoldWhileTurning:  true,
			SnapToDock:        true,
		},
		Zoom: ZoomConfig{
			Min:           0.2,
			Max:           2.0,
			Initial:       0.3,
			InitialMobile: 0.2,
			WheelGain:     0.005,
			PinchGain:     0.01,
			IntroTarget:   1.0,
			IntroDuration: 1.1, // 60fps 下约 67 帧
		},
		Arrival: ArrivalConfig{
			Radius:          35,
			DepartureRadius: 40,
			RearmRadius:     60,
		},
		Orientation: OrientationConfig{
			AssetOffsetDegrees: -90,
			TurnDuration:       1 / 1.2,
			Smoothing:          9.75, // 60fps 下每帧 15%
			MaxTurnRate:        6,
			BobAmplitude:       0.4,
			BobFrequency:       1.5,
			RollAmplitude:      0.03,
			RollFrequency:      0.8,
		},
		Camera: CameraConfig{
			Rig:                  CameraRig{Height: 45, Distance: 65, TrailOffset: 30, FollowRate: 5},
			MobileRig:            CameraRig{Height: 30, Distance: 70, TrailOffset: 20, FollowRate: 7},
			LookOffset:           0,
			FocusOffset:          types.V3(-40, 35, 40),
			FocusSeekDuration:    0.6,
			FocusReleaseDuration: 0.8,
			ZoomBands: []ZoomBand{
				{MaxDistance: 40, Zoom: 0.65},
				{MaxDistance: 70, Zoom: 0.75},
				{MaxDistance: 100, Zoom: 0.9},
			},
			FarZoom:         1.1,
			AutoZoomRate:    3.08, // 60fps 下每帧 5%
			DefaultPosition: types.V3(0, 60, 120),
			DefaultLookAt:   types.V3(0, 0, 0),
		},
		Layout: LayoutConfig{
			Seed:      12345,
			OriginX:   60,
			Spacing:   180,
			Lanes:     []float64{-60, -60, 0, 0, 60, 60},
			Jitter:    20,
			Height:    10,
			EndHeight: 25,
		},
	}
}

// LoadJourneyConfig 加载航程配置
//
// 文件中缺省的字段保留 DefaultJourneyConfig 的值。
//
// 参数:
//   - path: 配置文件路径（如 "data/journey.yaml"）
//
// 返回:
//   - *JourneyConfig: 加载并验证后的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadJourneyConfig(path string) (*JourneyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read journey config: %w", err)
	}
	return LoadJourneyConfigFromBytes(data)
}

// LoadJourneyConfigFromBytes 从 YAML 内容加载航程配置（用于嵌入资源）
func LoadJourneyConfigFromBytes(data []byte) (*JourneyConfig, error) {
	cfg := DefaultJourneyConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse journey config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid journey config: %w", err)
	}
	return cfg, nil
}

var structValidator = validator.New()

// Validate 验证配置有效性
//
// 字段范围由 validate 标签检查，跨字段规则在这里补充：
//   - 初始缩放与开场拉远目标位于 [Min, Max]
//   - 自动缩放距离带按距离严格递增
//   - 显式给出的航点坐标必须是有限值
func (c *JourneyConfig) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed '%s' (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}

	for _, z := range []float64{c.Zoom.Initial, c.Zoom.InitialMobile} {
		if z < c.Zoom.Min || z > c.Zoom.Max {
			return fmt.Errorf("initial zoom %.2f outside [%.2f, %.2f]", z, c.Zoom.Min, c.Zoom.Max)
		}
	}

	if t := c.Zoom.IntroTarget; t > 0 && (t < c.Zoom.Min || t > c.Zoom.Max) {
		return fmt.Errorf("intro zoom %.2f outside [%.2f, %.2f]", t, c.Zoom.Min, c.Zoom.Max)
	}

	for i := 1; i < len(c.Camera.ZoomBands); i++ {
		if c.Camera.ZoomBands[i].MaxDistance <= c.Camera.ZoomBands[i-1].MaxDistance {
			return fmt.Errorf("zoom band %d maxDistance %.1f must be greater than %.1f",
				i, c.Camera.ZoomBands[i].MaxDistance, c.Camera.ZoomBands[i-1].MaxDistance)
		}
	}

	for i, wp := range c.Waypoints {
		if wp.Position != nil && !wp.Position.IsFinite() {
			return fmt.Errorf("waypoint %d (%s) has non-finite position", i, wp.Title)
		}
	}

	return nil
}

// PathOptions 转换为航线构建参数
func (c *JourneyConfig) PathOptions() route.PathOptions {
	return route.PathOptions{
		LateralOffset:      c.Path.LateralOffset,
		ApproachOffset:     c.Path.ApproachOffset,
		LeadIn:             c.Path.LeadIn,
		LeadOut:            c.Path.LeadOut,
		CruiseHeight:       c.Path.CruiseHeight,
		Tension:            c.Path.Tension,
		ArcLengthDivisions: c.Path.ArcLengthDivisions,
	}
}

// LayoutOptions 转换为布局生成参数
func (c *JourneyConfig) LayoutOptions() route.LayoutOptions {
	lanes := make([]float64, len(c.Layout.Lanes))
	copy(lanes, c.Layout.Lanes)
	return route.LayoutOptions{
		Seed:      c.Layout.Seed,
		OriginX:   c.Layout.OriginX,
		Spacing:   c.Layout.Spacing,
		Lanes:     lanes,
		Jitter:    c.Layout.Jitter,
		Height:    c.Layout.Height,
		EndHeight: c.Layout.EndHeight,
	}
}

// BuildWaypoints 生成有序航点
//
// 显式坐标优先，其余航点使用布局生成器在同一索引处的坐标。
// 元数据为 WaypointMeta。
func (c *JourneyConfig) BuildWaypoints() []route.Waypoint {
	generated := route.GenerateLayout(len(c.Waypoints), c.LayoutOptions())
	out := make([]route.Waypoint, len(c.Waypoints))
	for i, wc := range c.Waypoints {
		pos := generated[i]
		if wc.Position != nil {
			pos = *wc.Position
		}
		out[i] = route.Waypoint{
			Index:    i,
			Position: pos,
			Metadata: WaypointMeta{Title: wc.Title, Time: wc.Time, Day: wc.Day},
		}
	}
	return out
}

// AssetOffset 模型朝向修正（弧度）
func (o OrientationConfig) AssetOffset() float64 {
	return o.AssetOffsetDegrees * math.Pi / 180
}

// ActiveRig 根据平台选择机位
func (c CameraConfig) ActiveRig(mobile bool) CameraRig {
	if mobile {
		return c.MobileRig
	}
	return c.Rig
}

// InitialZoom 根据平台选择初始缩放
func (z ZoomConfig) InitialZoom(mobile bool) float64 {
	if mobile {
		return z.InitialMobile
	}
	return z.Initial
}

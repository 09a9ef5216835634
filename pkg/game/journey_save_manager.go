package game

import (
	"fmt"
	"log"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// JourneySave 航程存档
// 只保存恢复画面所需的最小状态，停靠状态在下一帧由到达检测重新得出
type JourneySave struct {
	Progress float64 `yaml:"progress"` // 当前进度 [0,1]
	Zoom     float64 `yaml:"zoom"`     // 用户缩放

	// WaypointCount 保存时的航点数，航点列表变化后存档作废
	WaypointCount int `yaml:"waypointCount"`

	// LastWaypoint 最近停靠的航点，仅用于日志与界面提示
	LastWaypoint int `yaml:"lastWaypoint"`

	SavedAt time.Time `yaml:"savedAt"`
}

// 存储路径常量
const (
	journeyObject   = "journey"
	journeyProperty = "position"
)

// JourneySaveManager 航程存档管理器
type JourneySaveManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
}

// NewJourneySaveManager 创建航程存档管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，不读写存档）
func NewJourneySaveManager(gdataManager *gdata.Manager) *JourneySaveManager {
	return &JourneySaveManager{gdataManager: gdataManager}
}

// Load 读取存档
//
// 参数：
//   - waypointCount: 当前航点数，与存档不一致时视为没有存档
//
// 返回：
//   - *JourneySave: 存档，没有可用存档时为 nil
//   - error: 存档存在但读取或解析失败时返回错误
func (jm *JourneySaveManager) Load(waypointCount int) (*JourneySave, error) {
	// 降级模式：没有存档
	if jm.gdataManager == nil {
		return nil, nil
	}

	if !jm.gdataManager.ObjectPropExists(journeyObject, journeyProperty) {
		return nil, nil
	}

	data, err := jm.gdataManager.LoadObjectProp(journeyObject, journeyProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to load journey save: %w", err)
	}

	var save JourneySave
	if err := yaml.Unmarshal(data, &save); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journey save: %w", err)
	}

	if save.WaypointCount == 0 {
		// 已被重置
		return nil, nil
	}
	if save.WaypointCount != waypointCount {
		log.Printf("[JourneySaveManager] Save has %d waypoints, journey has %d, ignoring save",
			save.WaypointCount, waypointCount)
		return nil, nil
	}

	log.Printf("[JourneySaveManager] Journey save loaded (progress %.3f)", save.Progress)
	return &save, nil
}

// Save 写入存档
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (jm *JourneySaveManager) Save(save JourneySave) error {
	if jm.gdataManager == nil {
		return nil
	}
	if save.SavedAt.IsZero() {
		save.SavedAt = time.Now()
	}

	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal journey save: %w", err)
	}
	if err := jm.gdataManager.SaveObjectProp(journeyObject, journeyProperty, data); err != nil {
		return fmt.Errorf("failed to save journey: %w", err)
	}

	log.Printf("[JourneySaveManager] Journey saved (progress %.3f)", save.Progress)
	return nil
}

// Reset 作废存档，下次启动从起点开始
func (jm *JourneySaveManager) Reset() error {
	if err := jm.Save(JourneySave{}); err != nil {
		return err
	}
	log.Printf("[JourneySaveManager] Journey save reset")
	return nil
}

package input

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
)

// Validate 校验地图数据
// 功能：检查道路ID唯一、参考线点数、LaneSection与车道数据的合法性
// 参数：m-地图数据
// 返回：合并后的错误信息，数据合法时返回nil
func Validate(m *Map) (err error) {
	if m == nil || len(m.Roads) == 0 {
		return errors.New("map has no roads")
	}
	ids := make(map[string]struct{}, len(m.Roads))
	for i, r := range m.Roads {
		if r == nil || r.ID == "" {
			err = multierr.Append(err, fmt.Errorf("road #%d has no id", i))
			continue
		}
		if _, ok := ids[r.ID]; ok {
			err = multierr.Append(err, fmt.Errorf("duplicated road id %s", r.ID))
		}
		ids[r.ID] = struct{}{}
		if len(r.RefLine) < 2 {
			err = multierr.Append(err, fmt.Errorf("road %s: reference line needs at least 2 points", r.ID))
		}
		if len(r.Sections) == 0 {
			err = multierr.Append(err, fmt.Errorf("road %s has no lane section", r.ID))
		}
		for j, sec := range r.Sections {
			if j > 0 && sec.S0 < r.Sections[j-1].S0 {
				err = multierr.Append(err, fmt.Errorf("road %s: lane sections are not sorted by s0", r.ID))
			}
			laneIDs := make(map[int32]struct{}, len(sec.Lanes))
			for _, l := range sec.Lanes {
				if l.ID == 0 {
					err = multierr.Append(err, fmt.Errorf("road %s: lane id 0 is the reference line", r.ID))
				}
				if l.Width <= 0 {
					err = multierr.Append(err, fmt.Errorf("road %s: lane %d has non-positive width", r.ID, l.ID))
				}
				if _, ok := laneIDs[l.ID]; ok {
					err = multierr.Append(err, fmt.Errorf("road %s: duplicated lane id %d", r.ID, l.ID))
				}
				laneIDs[l.ID] = struct{}{}
			}
		}
	}
	return
}

// preCheckCache 预检查缓存目录
// 功能：验证输入缓存目录的有效性，决定是否启用缓存功能
// 参数：cacheDir-缓存目录路径
// 返回：true表示启用缓存，false表示禁用缓存
func preCheckCache(cacheDir string) bool {
	if cacheDir == "" {
		log.Info("disable input cache")
		return false
	} else {
		if stat, err := os.Stat(cacheDir); err == nil && stat.IsDir() {
			// 文件夹存在
			log.Infof("enable input cache at %s", cacheDir)
			return true
		} else {
			log.Errorf("disable input cache because invalid dir %s (not exist or file)", cacheDir)
			return false
		}
	}
}

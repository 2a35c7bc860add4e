package domain

import (
	"strings"
	"time"
)

// Stage 项目生命周期阶段
type Stage string

const (
	StageSigning    Stage = "signing"
	StageRenovating Stage = "renovating"
	StageSelling    Stage = "selling"
	StageSold       Stage = "sold"
)

// SubStage 装修子阶段
type SubStage string

const (
	SubStageDemolition SubStage = "demolition"
	SubStageDesign     SubStage = "design"
	SubStageHydro      SubStage = "hydro"
	SubStageWood       SubStage = "wood"
	SubStagePaint      SubStage = "paint"
	SubStageInstall    SubStage = "install"
	SubStageDelivery   SubStage = "delivery"
)

// SubStageDone 全部子阶段完成后的游标取值
const SubStageDone SubStage = "已完成"

// StageInfo 顶层阶段展示元数据
type StageInfo struct {
	Key     Stage    `json:"key"`
	Label   string   `json:"label"`
	Aliases []string `json:"-"`
}

// Stages 有序的顶层阶段注册表，顺序即生命周期顺序
var Stages = []StageInfo{
	{Key: StageSigning, Label: "签约", Aliases: []string{"sign", "签约中", "已签约"}},
	{Key: StageRenovating, Label: "装修", Aliases: []string{"renovation", "construction", "装修中", "施工中"}},
	{Key: StageSelling, Label: "出售", Aliases: []string{"sale", "on_sale", "出售中", "在售"}},
	{Key: StageSold, Label: "已售", Aliases: []string{"sold_out", "已成交", "已出售"}},
}

// SubStageInfo 装修子阶段展示元数据
type SubStageInfo struct {
	Key   SubStage `json:"key"`
	Label string   `json:"label"`
}

// SubStages 有序的装修子阶段注册表
var SubStages = []SubStageInfo{
	{Key: SubStageDemolition, Label: "拆除"},
	{Key: SubStageDesign, Label: "设计"},
	{Key: SubStageHydro, Label: "水电"},
	{Key: SubStageWood, Label: "木工"},
	{Key: SubStagePaint, Label: "油漆"},
	{Key: SubStageInstall, Label: "安装"},
	{Key: SubStageDelivery, Label: "交付"},
}

// ParseStage 将原始状态字符串归一化为标准阶段。
// 兼容历史别名拼写；无法识别时返回 StageSigning 和 false，
// 调用方应将 false 记录为数据质量告警。
func ParseStage(raw string) (Stage, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, info := range Stages {
		if s == string(info.Key) || raw == info.Label {
			return info.Key, true
		}
		for _, alias := range info.Aliases {
			if s == alias || raw == alias {
				return info.Key, true
			}
		}
	}
	return StageSigning, false
}

// StageIndex 返回阶段在注册表中的位置，未知返回 0
func StageIndex(s Stage) int {
	for i, info := range Stages {
		if info.Key == s {
			return i
		}
	}
	return 0
}

// SubStageIndex 返回子阶段在注册表中的位置，未知或已完成返回 -1
func SubStageIndex(key SubStage) int {
	for i, info := range SubStages {
		if info.Key == key {
			return i
		}
	}
	return -1
}

// NextSubStage 返回下一个子阶段；当前为最后一个时返回 false
func NextSubStage(key SubStage) (SubStage, bool) {
	idx := SubStageIndex(key)
	if idx < 0 || idx >= len(SubStages)-1 {
		return "", false
	}
	return SubStages[idx+1].Key, true
}

// Unlocked 阶段导航解锁规则：第 i 个阶段仅在 i 不超过当前阶段时可达
func (s Stage) Unlocked(i int) bool {
	return i >= 0 && i <= StageIndex(s)
}

// StagePosition 解析后的生命周期位置
type StagePosition struct {
	// 顶层阶段下标
	StageIndex int `json:"stage_index"`
	// 装修子阶段下标，仅装修期间有意义
	SubStageIndex int `json:"sub_stage_index"`
	// 是否已越过装修阶段
	PastRenovation bool `json:"past_renovation"`
}

// ResolvePosition 根据持久化的阶段、子阶段游标与完成时间表解析当前位置。
// 子阶段视为完成的条件：存在完成时间，或其下标小于游标下标，
// 以容忍后端乱序写入。全部完成或阶段已到出售/已售时，视为越过装修阶段。
func ResolvePosition(stage Stage, cursor SubStage, completed map[SubStage]time.Time) StagePosition {
	pos := StagePosition{StageIndex: StageIndex(stage), SubStageIndex: 0}

	if pos.StageIndex >= StageIndex(StageSelling) {
		pos.PastRenovation = true
		pos.SubStageIndex = len(SubStages)
		return pos
	}
	if stage != StageRenovating {
		return pos
	}

	cursorIdx := SubStageIndex(cursor)
	if cursor == SubStageDone {
		cursorIdx = len(SubStages)
	}

	allDone := true
	current := len(SubStages)
	for i, info := range SubStages {
		done := i < cursorIdx
		if _, ok := completed[info.Key]; ok {
			done = true
		}
		if !done {
			allDone = false
			if i < current {
				current = i
			}
		}
	}

	if allDone {
		pos.PastRenovation = true
		pos.SubStageIndex = len(SubStages)
		return pos
	}

	pos.SubStageIndex = current
	return pos
}

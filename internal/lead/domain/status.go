package domain

import "strings"

// Status 线索状态
type Status string

const (
	StatusPendingAssessment Status = "pending_assessment" // 待评估
	StatusPendingVisit      Status = "pending_visit"      // 待看房
	StatusVisited           Status = "visited"            // 已看房
	StatusSigned            Status = "signed"             // 已签约
	StatusRejected          Status = "rejected"           // 已拒绝
)

// allowedTransitions 线索状态迁移表，
// 线性推进，拒绝分支仅限待评估状态
var allowedTransitions = map[Status]map[Status]bool{
	StatusPendingAssessment: {
		StatusPendingVisit: true,
		StatusRejected:     true,
	},
	StatusPendingVisit: {
		StatusVisited: true,
	},
	StatusVisited: {
		StatusSigned: true,
	},
}

// statusAliases 历史数据里出现过的状态别名，统一到规范值
var statusAliases = map[string]Status{
	"pending":  StatusPendingAssessment,
	"待评估":      StatusPendingAssessment,
	"待看房":      StatusPendingVisit,
	"已看房":      StatusVisited,
	"已签约":      StatusSigned,
	"已拒绝":      StatusRejected,
	"rejected": StatusRejected,
}

// ParseStatus 归一化状态串；未知值返回 ok=false，由调用方决定兜底
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if s.Valid() {
		return s, true
	}
	if alias, ok := statusAliases[strings.TrimSpace(raw)]; ok {
		return alias, true
	}
	return StatusPendingAssessment, false
}

// CanTransition 判断状态迁移是否合法
func CanTransition(from, to Status) bool {
	return allowedTransitions[from][to]
}

// Terminal 是否终态
func (s Status) Terminal() bool {
	return s == StatusSigned || s == StatusRejected
}

// Valid 是否已知状态
func (s Status) Valid() bool {
	switch s {
	case StatusPendingAssessment, StatusPendingVisit, StatusVisited, StatusSigned, StatusRejected:
		return true
	}
	return false
}

// FollowUpMethod 跟进方式
type FollowUpMethod string

const (
	FollowUpPhone  FollowUpMethod = "phone"  // 电话
	FollowUpWechat FollowUpMethod = "wechat" // 微信
	FollowUpFace   FollowUpMethod = "face"   // 面谈
	FollowUpVisit  FollowUpMethod = "visit"  // 带看
)

// Valid 是否已知跟进方式
func (m FollowUpMethod) Valid() bool {
	switch m {
	case FollowUpPhone, FollowUpWechat, FollowUpFace, FollowUpVisit:
		return true
	}
	return false
}

// Orientations 朝向枚举
var Orientations = []string{"东", "南", "西", "北", "东南", "东北", "西南", "西北", "南北"}

// ValidOrientation 朝向为空或在枚举内时通过
func ValidOrientation(o string) bool {
	if o == "" {
		return true
	}
	for _, v := range Orientations {
		if v == o {
			return true
		}
	}
	return false
}

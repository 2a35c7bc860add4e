package domain

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

var (
	layoutPattern = regexp.MustCompile(`^(\d+)室(\d+)厅(\d+)卫$`)
	floorPattern  = regexp.MustCompile(`^(\d+)/(\d+)层$`)
)

// Layout 户型，形如 "2室1厅1卫"
type Layout struct {
	Rooms int `json:"rooms"`
	Halls int `json:"halls"`
	Baths int `json:"baths"`
}

// ParseLayout 解析户型串，无法解析时返回 false
func ParseLayout(raw string) (Layout, bool) {
	m := layoutPattern.FindStringSubmatch(raw)
	if m == nil {
		return Layout{}, false
	}
	rooms, _ := strconv.Atoi(m[1])
	halls, _ := strconv.Atoi(m[2])
	baths, _ := strconv.Atoi(m[3])
	return Layout{Rooms: rooms, Halls: halls, Baths: baths}, true
}

// String 还原为户型串，与 ParseLayout 互逆
func (l Layout) String() string {
	return fmt.Sprintf("%d室%d厅%d卫", l.Rooms, l.Halls, l.Baths)
}

// RoomBucket 按居室数分桶：1、2、3、4+、其他
func RoomBucket(layout string) string {
	l, ok := ParseLayout(layout)
	if !ok {
		return "其他"
	}
	if l.Rooms >= 5 {
		return "4+"
	}
	return strconv.Itoa(l.Rooms)
}

// FloorInfo 楼层，形如 "3/6层"
type FloorInfo struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// ParseFloor 解析楼层串，无法解析时返回 false
func ParseFloor(raw string) (FloorInfo, bool) {
	m := floorPattern.FindStringSubmatch(raw)
	if m == nil {
		return FloorInfo{}, false
	}
	current, _ := strconv.Atoi(m[1])
	total, _ := strconv.Atoi(m[2])
	if total <= 0 || current <= 0 || current > total {
		return FloorInfo{}, false
	}
	return FloorInfo{Current: current, Total: total}, true
}

// String 还原为楼层串
func (f FloorInfo) String() string {
	return fmt.Sprintf("%d/%d层", f.Current, f.Total)
}

// 楼层分类档位
const (
	FloorLow     = "低"
	FloorMiddle  = "中"
	FloorHigh    = "高"
	FloorUnknown = "未知"
)

// FloorCategory 按相对高度分类：比值不超过 1/3 为低，不超过 2/3 为中，其余为高
func FloorCategory(floor string) string {
	f, ok := ParseFloor(floor)
	if !ok {
		return FloorUnknown
	}
	ratio := float64(f.Current) / float64(f.Total)
	switch {
	case ratio <= 1.0/3.0:
		return FloorLow
	case ratio <= 2.0/3.0:
		return FloorMiddle
	default:
		return FloorHigh
	}
}

// LeadUnitPrice 线索单价（万/平），总价除以面积，保留两位小数；
// 面积为零或负时返回零值
func LeadUnitPrice(totalPrice, area decimal.Decimal) decimal.Decimal {
	if area.Sign() <= 0 {
		return decimal.Zero
	}
	return totalPrice.DivRound(area, 2)
}

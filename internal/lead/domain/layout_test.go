package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayoutRoundTrip(t *testing.T) {
	cases := []string{"2室1厅1卫", "3室2厅2卫", "1室0厅1卫", "5室3厅3卫"}
	for _, raw := range cases {
		l, ok := ParseLayout(raw)
		require.True(t, ok, "raw=%q", raw)
		assert.Equal(t, raw, l.String())
	}
}

func TestParseLayoutRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "两室一厅", "2室1厅", "2室1厅1卫1阳台", "室厅卫"} {
		_, ok := ParseLayout(raw)
		assert.False(t, ok, "raw=%q", raw)
	}
}

func TestRoomBucket(t *testing.T) {
	assert.Equal(t, "2", RoomBucket("2室1厅1卫"))
	assert.Equal(t, "4", RoomBucket("4室2厅2卫"))
	assert.Equal(t, "4+", RoomBucket("5室2厅2卫"))
	assert.Equal(t, "4+", RoomBucket("8室3厅3卫"))
	assert.Equal(t, "其他", RoomBucket("复式"))
	assert.Equal(t, "其他", RoomBucket(""))
}

func TestParseFloorRoundTrip(t *testing.T) {
	f, ok := ParseFloor("3/6层")
	require.True(t, ok)
	assert.Equal(t, 3, f.Current)
	assert.Equal(t, 6, f.Total)
	assert.Equal(t, "3/6层", f.String())
}

func TestParseFloorRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "3层", "0/6层", "7/6层", "3/0层", "三/六层"} {
		_, ok := ParseFloor(raw)
		assert.False(t, ok, "raw=%q", raw)
	}
}

func TestFloorCategory(t *testing.T) {
	assert.Equal(t, FloorLow, FloorCategory("1/6层"))
	assert.Equal(t, FloorLow, FloorCategory("2/6层"))
	assert.Equal(t, FloorMiddle, FloorCategory("3/6层"))
	assert.Equal(t, FloorMiddle, FloorCategory("4/6层"))
	assert.Equal(t, FloorHigh, FloorCategory("5/6层"))
	assert.Equal(t, FloorHigh, FloorCategory("6/6层"))
	assert.Equal(t, FloorUnknown, FloorCategory("顶楼"))
}

func TestLeadUnitPrice(t *testing.T) {
	// 210 万 / 55 平 = 3.82 万/平
	got := LeadUnitPrice(decimal.NewFromInt(210), decimal.NewFromInt(55))
	assert.True(t, got.Equal(decimal.NewFromFloat(3.82)), "got %s", got)

	assert.True(t, LeadUnitPrice(decimal.NewFromInt(210), decimal.Zero).IsZero())
	assert.True(t, LeadUnitPrice(decimal.NewFromInt(210), decimal.NewFromInt(-3)).IsZero())
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStage(t *testing.T) {
	cases := []struct {
		raw  string
		want Stage
		ok   bool
	}{
		{"signing", StageSigning, true},
		{"renovating", StageRenovating, true},
		{"renovation", StageRenovating, true},
		{"construction", StageRenovating, true},
		{"装修", StageRenovating, true},
		{"装修中", StageRenovating, true},
		{"selling", StageSelling, true},
		{"在售", StageSelling, true},
		{"sold", StageSold, true},
		{"已成交", StageSold, true},
		{"SOLD", StageSold, true},
		{" signing ", StageSigning, true},
		{"bogus", StageSigning, false},
		{"", StageSigning, false},
	}

	for _, tc := range cases {
		got, ok := ParseStage(tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
		assert.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
	}
}

func TestStageOrderIsMonotonic(t *testing.T) {
	assert.Equal(t, 0, StageIndex(StageSigning))
	assert.Equal(t, 1, StageIndex(StageRenovating))
	assert.Equal(t, 2, StageIndex(StageSelling))
	assert.Equal(t, 3, StageIndex(StageSold))
}

func TestStageUnlocked(t *testing.T) {
	assert.True(t, StageRenovating.Unlocked(0))
	assert.True(t, StageRenovating.Unlocked(1))
	assert.False(t, StageRenovating.Unlocked(2))
	assert.False(t, StageRenovating.Unlocked(3))
	assert.False(t, StageSigning.Unlocked(-1))
	assert.True(t, StageSold.Unlocked(3))
}

func TestNextSubStage(t *testing.T) {
	next, ok := NextSubStage(SubStageDemolition)
	assert.True(t, ok)
	assert.Equal(t, SubStageDesign, next)

	_, ok = NextSubStage(SubStageDelivery)
	assert.False(t, ok)

	_, ok = NextSubStage("nonsense")
	assert.False(t, ok)
}

func TestResolvePositionRenovating(t *testing.T) {
	pos := ResolvePosition(StageRenovating, SubStageHydro, nil)
	assert.Equal(t, 1, pos.StageIndex)
	assert.Equal(t, 2, pos.SubStageIndex)
	assert.False(t, pos.PastRenovation)
}

func TestResolvePositionToleratesOutOfOrderDates(t *testing.T) {
	// 游标还在设计，但水电已有完成时间：当前位置应跳到木工
	completed := map[SubStage]time.Time{
		SubStageDemolition: time.Now(),
		SubStageDesign:     time.Now(),
		SubStageHydro:      time.Now(),
	}
	pos := ResolvePosition(StageRenovating, SubStageDesign, completed)
	assert.Equal(t, 3, pos.SubStageIndex)
	assert.False(t, pos.PastRenovation)
}

func TestResolvePositionAllDatesMeansPastRenovation(t *testing.T) {
	completed := map[SubStage]time.Time{}
	for _, info := range SubStages {
		completed[info.Key] = time.Now()
	}
	pos := ResolvePosition(StageRenovating, SubStageDemolition, completed)
	assert.True(t, pos.PastRenovation)
}

func TestResolvePositionDoneCursor(t *testing.T) {
	pos := ResolvePosition(StageRenovating, SubStageDone, nil)
	assert.True(t, pos.PastRenovation)
}

func TestResolvePositionSellingIgnoresStaleSubStage(t *testing.T) {
	pos := ResolvePosition(StageSelling, SubStageHydro, nil)
	assert.Equal(t, 2, pos.StageIndex)
	assert.True(t, pos.PastRenovation)

	pos = ResolvePosition(StageSold, SubStageDemolition, nil)
	assert.True(t, pos.PastRenovation)
}

func TestResolvePositionUnknownStageDefaultsToSigning(t *testing.T) {
	stage, ok := ParseStage("legacy-weirdness")
	assert.False(t, ok)

	pos := ResolvePosition(stage, "", nil)
	assert.Equal(t, 0, pos.StageIndex)
	assert.False(t, pos.PastRenovation)
}

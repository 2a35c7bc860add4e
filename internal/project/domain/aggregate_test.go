package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupPhotosBySubStage(t *testing.T) {
	photos := []*RenovationPhoto{
		{SubStage: SubStageDemolition, URL: "a"},
		{SubStage: SubStageHydro, URL: "b"},
		{SubStage: SubStageDemolition, URL: "c"},
	}

	groups := GroupPhotosBySubStage(photos)

	// 注册表全部键都在，哪怕没有照片
	assert.Len(t, groups, len(SubStages))
	assert.Empty(t, groups[SubStageDelivery])

	require.Len(t, groups[SubStageDemolition], 2)
	assert.Equal(t, "a", groups[SubStageDemolition][0].URL)
	assert.Equal(t, "c", groups[SubStageDemolition][1].URL)
}

func TestGroupPhotosKeepsUnknownSubStage(t *testing.T) {
	photos := []*RenovationPhoto{
		{SubStage: "mystery", URL: "x"},
	}

	groups := GroupPhotosBySubStage(photos)
	require.Contains(t, groups, SubStage("mystery"))
	assert.Len(t, groups[SubStage("mystery")], 1)
}

func TestGroupAttachmentsByCategory(t *testing.T) {
	attachments := []*Attachment{
		{Category: AttachmentContract, Name: "购房合同"},
		{Category: AttachmentInvoice, Name: "发票"},
	}

	groups := GroupAttachmentsByCategory(attachments)
	assert.Len(t, groups, len(AttachmentCategories))
	assert.Len(t, groups[AttachmentContract], 1)
	assert.Empty(t, groups[AttachmentOther])
}

func TestGroupSalesByKind(t *testing.T) {
	records := []*SalesRecord{
		{Kind: SalesKindViewing},
		{Kind: SalesKindOffer},
		{Kind: SalesKindViewing},
	}

	groups := GroupSalesByKind(records)
	assert.Len(t, groups[SalesKindViewing], 2)
	assert.Len(t, groups[SalesKindOffer], 1)
	assert.Empty(t, groups[SalesKindNegotiation])
}

package domain

// 子记录按注册表分组。分组结果总是包含注册表的全部键，
// 没有匹配记录的键对应空切片，由调用方决定是否跳过空分组渲染；
// 组内保持输入顺序。

// GroupPhotosBySubStage 装修照片按子阶段分组
func GroupPhotosBySubStage(photos []*RenovationPhoto) map[SubStage][]*RenovationPhoto {
	groups := make(map[SubStage][]*RenovationPhoto, len(SubStages))
	for _, info := range SubStages {
		groups[info.Key] = []*RenovationPhoto{}
	}
	for _, photo := range photos {
		if _, ok := groups[photo.SubStage]; !ok {
			// 未知子阶段不丢弃，单独成组以便排查脏数据
			groups[photo.SubStage] = []*RenovationPhoto{}
		}
		groups[photo.SubStage] = append(groups[photo.SubStage], photo)
	}
	return groups
}

// GroupAttachmentsByCategory 附件按分类分组
func GroupAttachmentsByCategory(attachments []*Attachment) map[AttachmentCategory][]*Attachment {
	groups := make(map[AttachmentCategory][]*Attachment, len(AttachmentCategories))
	for _, cat := range AttachmentCategories {
		groups[cat] = []*Attachment{}
	}
	for _, att := range attachments {
		if _, ok := groups[att.Category]; !ok {
			groups[att.Category] = []*Attachment{}
		}
		groups[att.Category] = append(groups[att.Category], att)
	}
	return groups
}

// GroupSalesByKind 销售动态按类型分组
func GroupSalesByKind(records []*SalesRecord) map[SalesRecordKind][]*SalesRecord {
	groups := make(map[SalesRecordKind][]*SalesRecord, len(SalesRecordKinds))
	for _, kind := range SalesRecordKinds {
		groups[kind] = []*SalesRecord{}
	}
	for _, rec := range records {
		if _, ok := groups[rec.Kind]; !ok {
			groups[rec.Kind] = []*SalesRecord{}
		}
		groups[rec.Kind] = append(groups[rec.Kind], rec)
	}
	return groups
}

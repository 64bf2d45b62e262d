package estimate

// SegmentStats Solar 屋顶面统计
type SegmentStats struct {
	AreaMeters2 float64 `json:"areaMeters2"`
}

// SegmentRecord Solar API roofSegmentStats 原始条目
type SegmentRecord struct {
	PitchDegrees   float64      `json:"pitchDegrees"`
	AzimuthDegrees float64      `json:"azimuthDegrees"`
	Stats          SegmentStats `json:"stats"`
	Center         LatLng       `json:"center"`
	BoundingBox    BoundingBox  `json:"boundingBox"`
}

// SegmentsFromRecords 转换单位并按输入顺序编号（从 1 开始）
func SegmentsFromRecords(records []SegmentRecord) []Segment {
	segments := make([]Segment, 0, len(records))
	for i, r := range records {
		segments = append(segments, Segment{
			ID:             i + 1,
			AzimuthDegrees: Round(r.AzimuthDegrees, 1),
			PitchDegrees:   Round(r.PitchDegrees, 1),
			AreaSqft:       Round(r.Stats.AreaMeters2*SqftPerSquareMeter, 2),
			Center:         r.Center,
			BoundingBox:    r.BoundingBox,
		})
	}
	return segments
}

// SquareMetersToSqft 平方米转平方英尺
func SquareMetersToSqft(m2 float64) float64 {
	return m2 * SqftPerSquareMeter
}

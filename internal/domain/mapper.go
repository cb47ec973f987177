package domain

// ToCourseResult projects a course into its display form.
func ToCourseResult(c *Course) CourseResult {
	return CourseResult{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Category:        c.Category,
		Type:            c.Type.String(),
		GradeRange:      c.GradeRange,
		MinAge:          c.MinAge,
		MaxAge:          c.MaxAge,
		Price:           Money{c.Price},
		NextSessionDate: c.NextSessionDate,
	}
}

// NewSearchResponse maps a hit page to the response for req, keeping hit
// order and the executor's total unchanged. Page and size are echoed.
func NewSearchResponse(hits *HitPage, req SearchRequest) *SearchResponse {
	courses := make([]CourseResult, 0, len(hits.Hits))
	for _, h := range hits.Hits {
		courses = append(courses, ToCourseResult(h.Course))
	}

	return &SearchResponse{
		Total:   hits.Total,
		Page:    req.Page,
		Size:    req.Size,
		Courses: courses,
	}
}

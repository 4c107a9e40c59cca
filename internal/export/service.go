package export

import (
	"fmt"
	"time"

	"matterdesk/api/internal/ingest"
	"matterdesk/api/internal/matter"
)

// Service renders the matters register for download.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// RegisterPDF renders the full matters register as a landscape PDF.
func (s *Service) RegisterPDF(matters []matter.Matter, generatedAt time.Time) (*Result, error) {
	open := 0
	for _, m := range matters {
		if !ingest.IsClosedStatus(m.OverallStatus) {
			open++
		}
	}

	html, err := RenderRegisterHTML(TemplateData{
		Title:       "Matters Register",
		GeneratedAt: generatedAt,
		Total:       len(matters),
		OpenCount:   open,
		Matters:     matters,
	})
	if err != nil {
		return nil, fmt.Errorf("render register: %w", err)
	}

	return exportPDF(html, "Matters Register")
}

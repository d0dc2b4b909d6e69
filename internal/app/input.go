package app

import (
	"fmt"

	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/generation"
)

// GenerateInput is the wire shape of a generation request.
type GenerateInput struct {
	LoadLevels           []string `json:"loadLevels"`
	Duration             int      `json:"duration"`
	Notes                string   `json:"notes,omitempty"`
	Model                string   `json:"model"`
	Credentials          string   `json:"credentials,omitempty"`
	UseRetrieval         bool     `json:"useRetrieval,omitempty"`
	RetrievalCredentials string   `json:"retrievalCredentials,omitempty"`
}

// Request converts the input into a domain request. Load level parsing
// errors are reported as INVALID_REQUEST generation errors.
func (in GenerateInput) Request() (domain.GenerationRequest, error) {
	levels, err := domain.ParseLoadLevels(in.LoadLevels)
	if err != nil {
		return domain.GenerationRequest{}, &generation.Error{
			Code:    generation.CodeInvalidRequest,
			Message: err.Error(),
			Err:     fmt.Errorf("%w: %v", domain.ErrInvalidLoadLevel, err),
		}
	}
	return domain.GenerationRequest{
		LoadLevels:           levels,
		Duration:             in.Duration,
		Notes:                in.Notes,
		Provider:             domain.ProviderKey(in.Model),
		Credentials:          in.Credentials,
		UseRetrieval:         in.UseRetrieval,
		RetrievalCredentials: in.RetrievalCredentials,
	}, nil
}

// GenerateOutput is the wire shape of a successful generation.
type GenerateOutput struct {
	MenuID     string               `json:"menuId"`
	Menu       domain.GeneratedMenu `json:"menu"`
	Converged  bool                 `json:"converged"`
	Iterations int                  `json:"iterations"`
}

// NewGenerateOutput converts a generation result to its wire shape.
func NewGenerateOutput(res *generation.Result) GenerateOutput {
	return GenerateOutput{
		MenuID:     res.MenuID,
		Menu:       res.Menu,
		Converged:  res.Report.Converged,
		Iterations: res.Report.Iterations,
	}
}

// MenuSummary is the list view of a stored menu.
type MenuSummary struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	TotalTime  int                `json:"totalTime"`
	Intensity  string             `json:"intensity,omitempty"`
	LoadLevels []domain.LoadLevel `json:"loadLevels"`
	Provider   domain.ProviderKey `json:"provider"`
	CreatedAt  string             `json:"createdAt"`
}

// Summarize builds list views for records.
func Summarize(recs []*domain.MenuRecord) []MenuSummary {
	out := make([]MenuSummary, 0, len(recs))
	for _, r := range recs {
		out = append(out, MenuSummary{
			ID:         r.ID,
			Title:      r.Metadata.Title,
			TotalTime:  r.Metadata.TotalTime,
			Intensity:  r.Metadata.Intensity,
			LoadLevels: r.LoadLevels,
			Provider:   r.Provider,
			CreatedAt:  r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	return out
}

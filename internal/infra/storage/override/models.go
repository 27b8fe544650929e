package override

import (
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// breakRow представление перерыва в колонке breaks (JSONB)
type breakRow struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description,omitempty"`
}

func encodeBreaks(breaks []domain.Break) ([]byte, error) {
	rows := make([]breakRow, 0, len(breaks))
	for _, b := range breaks {
		rows = append(rows, breakRow{
			StartTime:   b.StartTime.String(),
			EndTime:     b.EndTime.String(),
			Description: b.Description,
		})
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeBreaks, err)
	}
	return data, nil
}

func decodeBreaks(data []byte) ([]domain.Break, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rows []breakRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeBreaks, err)
	}
	breaks := make([]domain.Break, 0, len(rows))
	for _, r := range rows {
		breaks = append(breaks, domain.Break{
			StartTime:   types.TimeString(r.StartTime),
			EndTime:     types.TimeString(r.EndTime),
			Description: r.Description,
		})
	}
	return breaks, nil
}

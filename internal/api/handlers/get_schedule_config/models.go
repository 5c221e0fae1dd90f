package get_schedule_config

import (
	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// ScheduleConfigResponse HTTP response model
type ScheduleConfigResponse struct {
	Open          string `json:"open"`
	Close         string `json:"close"`
	SlotMinutes   int    `json:"slotMinutes"`
	OpeningPolicy string `json:"openingPolicy"`
}

// FromWindow конвертирует окно расписания в HTTP response
func FromWindow(w scheduler.Window) *ScheduleConfigResponse {
	return &ScheduleConfigResponse{
		Open:          w.Open.String(),
		Close:         types.FormatMinutes(w.Close.Minutes()),
		SlotMinutes:   w.SlotMinutes,
		OpeningPolicy: w.Opening.String(),
	}
}

package entity

import "carebook/cmd/internal/domain/scheduling"

// WeeklyTemplate is one working weekday of a doctor. Days without a row
// are not working days.
type WeeklyTemplate struct {
	ID           string             `gorm:"primaryKey;size:36"`
	DoctorID     string             `gorm:"not null;size:64;uniqueIndex:idx_template_doctor_day"` // References: doctors(id)
	DayOfWeek    scheduling.Weekday `gorm:"not null;size:9;uniqueIndex:idx_template_doctor_day"`
	IsEnabled    bool               `gorm:"not null"`
	StartTime    string             `gorm:"not null;size:5"`
	EndTime      string             `gorm:"not null;size:5"`
	SlotDuration int                `gorm:"not null"`
	CreatedAt    int64              `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64              `gorm:"not null;autoUpdateTime:false"`

	Breaks []TemplateBreak `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
}

type TemplateBreak struct {
	ID         uint   `gorm:"primaryKey"`
	TemplateID string `gorm:"not null;size:36;index"`
	BreakStart string `gorm:"not null;size:5"`
	BreakEnd   string `gorm:"not null;size:5"`
}

// DayTemplate converts the stored row into the scheduling form. Rows are
// validated on write, so a parse failure here means the row was edited
// outside the service.
func (w *WeeklyTemplate) DayTemplate() (scheduling.DayTemplate, error) {
	start, err := scheduling.ParseClock(w.StartTime)
	if err != nil {
		return scheduling.DayTemplate{}, err
	}
	end, err := scheduling.ParseClock(w.EndTime)
	if err != nil {
		return scheduling.DayTemplate{}, err
	}

	breaks := make([]scheduling.Break, 0, len(w.Breaks))
	for _, b := range w.Breaks {
		bs, err := scheduling.ParseClock(b.BreakStart)
		if err != nil {
			return scheduling.DayTemplate{}, err
		}
		be, err := scheduling.ParseClock(b.BreakEnd)
		if err != nil {
			return scheduling.DayTemplate{}, err
		}
		breaks = append(breaks, scheduling.Break{Start: bs, End: be})
	}

	return scheduling.DayTemplate{
		Day:         w.DayOfWeek,
		Enabled:     w.IsEnabled,
		Start:       start,
		End:         end,
		SlotMinutes: w.SlotDuration,
		Breaks:      breaks,
	}, nil
}

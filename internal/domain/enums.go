package domain

type BarType string

const (
	BarNormal   BarType = "Normal"
	BarBackdrop BarType = "Backdrop"
	BarOverlay  BarType = "Overlay"
)

type EntityType string

const (
	EntityCampaign  EntityType = "Campaign"
	EntityBatch     EntityType = "Batch"
	EntityBranch    EntityType = "Branch"
	EntitySection   EntityType = "Section"
	EntityProcedure EntityType = "Procedure"
	EntityOperation EntityType = "Operation"
	EntityBreak     EntityType = "Break"
	EntityOutage    EntityType = "Outage"
	EntityEquipment EntityType = "Equipment"
	EntityStaff     EntityType = "Staff"
)

// Edge names the side of a bar an arrow attaches to.
type Edge string

const (
	EdgeStart Edge = "Start"
	EdgeEnd   Edge = "End"
)

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
)

// TimeScale is a major/minor unit pairing for the chart's time axis.
type TimeScale struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

var (
	TimeScaleHourTenmin = TimeScale{Name: "HourTenmin", DisplayName: "hour / ten min"}
	TimeScaleDayHour    = TimeScale{Name: "DayHour", DisplayName: "day / hour"}
	TimeScaleWeekDay    = TimeScale{Name: "WeekDay", DisplayName: "week / day"}
	TimeScaleMonthWeek  = TimeScale{Name: "MonthWeek", DisplayName: "month / week"}
	TimeScaleYearMonth  = TimeScale{Name: "YearMonth", DisplayName: "year / month"}
)

// TimeScales lists the selectable time scales in display order.
var TimeScales = []TimeScale{
	TimeScaleHourTenmin,
	TimeScaleDayHour,
	TimeScaleWeekDay,
	TimeScaleMonthWeek,
	TimeScaleYearMonth,
}

// LookupTimeScale finds a time scale by name.
func LookupTimeScale(name string) (TimeScale, bool) {
	for _, ts := range TimeScales {
		if ts.Name == name {
			return ts, true
		}
	}
	return TimeScale{}, false
}

// DetailLevel is a depth threshold deciding which row types start expanded.
type DetailLevel struct {
	ID      int        `json:"id"`
	Name    EntityType `json:"name"`
	Enabled bool       `json:"enabled"`
}

// ColorBy selects which operation color field drives bar colors.
type ColorBy struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

var (
	ColorByCampaign = ColorBy{ID: 1, Name: "Campaign", Value: "campaignColor"}
	ColorByBatch    = ColorBy{ID: 2, Name: "Batch", Value: "batchColor"}
)

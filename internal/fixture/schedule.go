package fixture

import (
	"slices"
	"time"
)

// Schedule is the equipment/staff dataset of the scheduler page.
type Schedule struct {
	Equipment []Equipment   `json:"equipment"`
	Staff     []Staff       `json:"staff"`
	Campaigns []LegendEntry `json:"campaigns,omitempty"`
	Batches   []LegendEntry `json:"batches,omitempty"`
}

// LegendEntry names a campaign or batch and its integer color.
type LegendEntry struct {
	Name  string `json:"name"`
	Color int64  `json:"color"`
}

type Equipment struct {
	EquipmentID    int             `json:"equipmentId"`
	EquipmentName  string          `json:"equipmentName"`
	RowsRequired   *int            `json:"rowsRequired,omitempty"`
	IsConflicted   bool            `json:"isConflicted,omitempty"`
	ProcEntryTasks []ProcEntryTask `json:"procEntryTasks"`
	OpEntryTasks   []OpEntryTask   `json:"opEntryTasks"`
	Outages        []Interval      `json:"outages"`
}

type Staff struct {
	StaffID      int           `json:"staffId"`
	StaffName    string        `json:"staffName"`
	RowsRequired *int          `json:"rowsRequired,omitempty"`
	IsConflicted bool          `json:"isConflicted,omitempty"`
	OpEntryTasks []OpEntryTask `json:"opEntryTasks"`
	Outages      []Interval    `json:"outages"`
}

// ProcEntryTask is a procedure scheduled on a piece of equipment.
type ProcEntryTask struct {
	ProcedureID      int           `json:"procedureId"`
	ProcedureName    string        `json:"procedureName"`
	StartDate        Time          `json:"startDate"`
	EndDate          Time          `json:"endDate"`
	Row              *int          `json:"row,omitempty"`
	ConflictIndexes  []int         `json:"conflictIndexes"`
	EquipmentPoolIDs []int         `json:"equipmentPoolIds"`
	OpEntryTasks     []OpEntryTask `json:"opEntryTasks"`
}

// OpEntryTask is a single scheduled operation.
type OpEntryTask struct {
	OperationID                    int        `json:"operationId"`
	OperationName                  string     `json:"operationName"`
	ProcedureID                    int        `json:"procedureId"`
	ProcedureName                  string     `json:"procedureName,omitempty"`
	StartDate                      Time       `json:"startDate"`
	EndDate                        Time       `json:"endDate"`
	Row                            *int       `json:"row,omitempty"`
	Breaks                         []Interval `json:"breaks"`
	ConflictIndexes                []int      `json:"conflictIndexes"`
	CampaignColor                  int64      `json:"campaignColor"`
	BatchColor                     int64      `json:"batchColor"`
	SchedulingReferenceOperationID *int       `json:"schedulingReferenceOperationId,omitempty"`
	SchedulingRelation             []string   `json:"schedulingRelation,omitempty"`
}

// RowOrDefault returns the 1-based row index of the task, defaulting to 1.
func RowOrDefault(row *int) int {
	if row == nil {
		return 1
	}
	return *row
}

// RowsNeeded returns the number of chart rows the equipment needs.
func (e *Equipment) RowsNeeded() int {
	return RowOrDefault(e.RowsRequired)
}

func (s *Staff) RowsNeeded() int {
	return RowOrDefault(s.RowsRequired)
}

// HasBreaks reports whether the operation is split by breaks.
func (o *OpEntryTask) HasBreaks() bool {
	return len(o.Breaks) > 0
}

// Color returns the operation color for the given color-by field.
func (o *OpEntryTask) Color(field string) int64 {
	if field == "batchColor" {
		return o.BatchColor
	}
	return o.CampaignColor
}

// Shifted returns a deep copy of o moved by d.
func (o OpEntryTask) Shifted(d time.Duration) OpEntryTask {
	o.StartDate = o.StartDate.Add(d)
	o.EndDate = o.EndDate.Add(d)
	o.Breaks = shiftIntervals(o.Breaks, d)
	o.ConflictIndexes = slices.Clone(o.ConflictIndexes)
	o.SchedulingRelation = slices.Clone(o.SchedulingRelation)
	if o.Row != nil {
		row := *o.Row
		o.Row = &row
	}
	if o.SchedulingReferenceOperationID != nil {
		ref := *o.SchedulingReferenceOperationID
		o.SchedulingReferenceOperationID = &ref
	}
	return o
}

// Shifted returns a deep copy of p moved by d, operations included.
func (p ProcEntryTask) Shifted(d time.Duration) ProcEntryTask {
	p.StartDate = p.StartDate.Add(d)
	p.EndDate = p.EndDate.Add(d)
	p.OpEntryTasks = shiftOps(p.OpEntryTasks, d)
	p.ConflictIndexes = slices.Clone(p.ConflictIndexes)
	p.EquipmentPoolIDs = slices.Clone(p.EquipmentPoolIDs)
	if p.Row != nil {
		row := *p.Row
		p.Row = &row
	}
	return p
}

// FindEquipment returns a pointer into s.Equipment, or nil.
func (s *Schedule) FindEquipment(id int) *Equipment {
	for i := range s.Equipment {
		if s.Equipment[i].EquipmentID == id {
			return &s.Equipment[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the schedule.
func (s *Schedule) Clone() *Schedule {
	out := &Schedule{
		Campaigns: slices.Clone(s.Campaigns),
		Batches:   slices.Clone(s.Batches),
	}
	if s.Equipment != nil {
		out.Equipment = make([]Equipment, 0, len(s.Equipment))
	}
	if s.Staff != nil {
		out.Staff = make([]Staff, 0, len(s.Staff))
	}
	for _, e := range s.Equipment {
		if e.ProcEntryTasks != nil {
			procs := make([]ProcEntryTask, len(e.ProcEntryTasks))
			for i, p := range e.ProcEntryTasks {
				procs[i] = p.Shifted(0)
			}
			e.ProcEntryTasks = procs
		}
		e.OpEntryTasks = shiftOps(e.OpEntryTasks, 0)
		e.Outages = slices.Clone(e.Outages)
		if e.RowsRequired != nil {
			n := *e.RowsRequired
			e.RowsRequired = &n
		}
		out.Equipment = append(out.Equipment, e)
	}
	for _, st := range s.Staff {
		st.OpEntryTasks = shiftOps(st.OpEntryTasks, 0)
		st.Outages = slices.Clone(st.Outages)
		if st.RowsRequired != nil {
			n := *st.RowsRequired
			st.RowsRequired = &n
		}
		out.Staff = append(out.Staff, st)
	}
	return out
}

// shiftOps and shiftIntervals keep nil and empty inputs distinct.
func shiftOps(ops []OpEntryTask, d time.Duration) []OpEntryTask {
	if ops == nil {
		return nil
	}
	out := make([]OpEntryTask, len(ops))
	for i, op := range ops {
		out[i] = op.Shifted(d)
	}
	return out
}

func shiftIntervals(ivs []Interval, d time.Duration) []Interval {
	if ivs == nil {
		return nil
	}
	out := make([]Interval, len(ivs))
	for i, iv := range ivs {
		out[i] = iv.shift(d)
	}
	return out
}

package fixture

import (
	"fmt"
)

// ValidateGantt checks a campaign tree for missing names and inverted
// intervals. Returns every problem found.
func ValidateGantt(f *GanttFixture) []error {
	var errs []error
	for ci, c := range f.Campaigns {
		path := fmt.Sprintf("campaigns[%d]", ci)
		errs = append(errs, validateNamed(path, c.CampaignName, c.StartDate, c.EndDate)...)
		for bi, b := range c.Batches {
			bpath := fmt.Sprintf("%s.batches[%d]", path, bi)
			errs = append(errs, validateNamed(bpath, b.BatchName, b.StartDate, b.EndDate)...)
			for ri, br := range b.Branches {
				rpath := fmt.Sprintf("%s.branches[%d]", bpath, ri)
				errs = append(errs, validateNamed(rpath, br.BranchName, br.StartDate, br.EndDate)...)
				for si, s := range br.Sections {
					spath := fmt.Sprintf("%s.sections[%d]", rpath, si)
					errs = append(errs, validateNamed(spath, s.SectionName, s.StartDate, s.EndDate)...)
					errs = append(errs, validateProcedures(spath, s.Procedures)...)
				}
			}
			errs = append(errs, validateProcedures(bpath, b.Procedures)...)
		}
	}
	return errs
}

func validateProcedures(parent string, procs []Procedure) []error {
	var errs []error
	for pi, p := range procs {
		ppath := fmt.Sprintf("%s.procedures[%d]", parent, pi)
		errs = append(errs, validateNamed(ppath, p.ProcedureName, p.StartDate, p.EndDate)...)
		for oi, op := range p.Operations {
			opath := fmt.Sprintf("%s.operations[%d]", ppath, oi)
			errs = append(errs, validateNamed(opath, op.OperationName, op.StartDate, op.EndDate)...)
			errs = append(errs, validateIntervals(opath+".breaks", op.Breaks)...)
		}
	}
	return errs
}

// ValidateSchedule checks the scheduler dataset: ids must be unique per
// resource kind, names present, intervals ordered, and every pool id must
// name known equipment.
func ValidateSchedule(s *Schedule) []error {
	var errs []error

	equipmentIDs := make(map[int]bool, len(s.Equipment))
	for i, e := range s.Equipment {
		path := fmt.Sprintf("equipment[%d]", i)
		if equipmentIDs[e.EquipmentID] {
			errs = append(errs, fmt.Errorf("%s: duplicate equipmentId %d", path, e.EquipmentID))
		}
		equipmentIDs[e.EquipmentID] = true
		if e.EquipmentName == "" {
			errs = append(errs, fmt.Errorf("%s.equipmentName is required", path))
		}
		if e.RowsRequired != nil && *e.RowsRequired < 1 {
			errs = append(errs, fmt.Errorf("%s.rowsRequired must be at least 1, got %d", path, *e.RowsRequired))
		}
		errs = append(errs, validateIntervals(path+".outages", e.Outages)...)
	}

	for i, e := range s.Equipment {
		path := fmt.Sprintf("equipment[%d]", i)
		for pi, p := range e.ProcEntryTasks {
			ppath := fmt.Sprintf("%s.procEntryTasks[%d]", path, pi)
			errs = append(errs, validateNamed(ppath, p.ProcedureName, p.StartDate, p.EndDate)...)
			for _, id := range p.EquipmentPoolIDs {
				if !equipmentIDs[id] {
					errs = append(errs, fmt.Errorf("%s.equipmentPoolIds: unknown equipment %d", ppath, id))
				}
			}
			errs = append(errs, validateOps(ppath, p.OpEntryTasks)...)
		}
		errs = append(errs, validateOps(path, e.OpEntryTasks)...)
	}

	staffIDs := make(map[int]bool, len(s.Staff))
	for i, st := range s.Staff {
		path := fmt.Sprintf("staff[%d]", i)
		if staffIDs[st.StaffID] {
			errs = append(errs, fmt.Errorf("%s: duplicate staffId %d", path, st.StaffID))
		}
		staffIDs[st.StaffID] = true
		if st.StaffName == "" {
			errs = append(errs, fmt.Errorf("%s.staffName is required", path))
		}
		errs = append(errs, validateIntervals(path+".outages", st.Outages)...)
		errs = append(errs, validateOps(path, st.OpEntryTasks)...)
	}

	return errs
}

func validateOps(parent string, ops []OpEntryTask) []error {
	var errs []error
	for i, op := range ops {
		path := fmt.Sprintf("%s.opEntryTasks[%d]", parent, i)
		errs = append(errs, validateNamed(path, op.OperationName, op.StartDate, op.EndDate)...)
		errs = append(errs, validateIntervals(path+".breaks", op.Breaks)...)
	}
	return errs
}

func validateNamed(path, name string, start, end Time) []error {
	var errs []error
	if name == "" {
		errs = append(errs, fmt.Errorf("%s: name is required", path))
	}
	if end.Before(start.Time) {
		errs = append(errs, fmt.Errorf("%s: endDate %s is before startDate %s", path, end.Format("2006-01-02 15:04"), start.Format("2006-01-02 15:04")))
	}
	return errs
}

func validateIntervals(path string, ivs []Interval) []error {
	var errs []error
	for i, iv := range ivs {
		if iv.EndDate.Before(iv.StartDate.Time) {
			errs = append(errs, fmt.Errorf("%s[%d]: endDate is before startDate", path, i))
		}
	}
	return errs
}

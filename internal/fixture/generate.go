package fixture

import (
	"fmt"
	"math/rand"
	"time"
)

var generatorEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// GenerateLarge builds a deterministic five-level campaign tree for the
// gantt-large page. The same seed always yields the same fixture.
func GenerateLarge(seed int64, campaigns int) *GanttFixture {
	rng := rand.New(rand.NewSource(seed))
	f := &GanttFixture{}
	cursor := generatorEpoch

	for c := 0; c < campaigns; c++ {
		camp := Campaign{CampaignName: fmt.Sprintf("Campaign %03d", c+1)}
		campStart := cursor
		batchCursor := campStart

		batches := 1 + rng.Intn(3)
		for b := 0; b < batches; b++ {
			batch := Batch{BatchName: fmt.Sprintf("Batch %03d-%d", c+1, b+1)}
			batchStart := batchCursor
			branchEnd := batchStart

			branches := 1 + rng.Intn(2)
			for br := 0; br < branches; br++ {
				branch := Branch{BranchName: fmt.Sprintf("Branch %c", 'A'+br)}
				section := Section{SectionName: fmt.Sprintf("Section %d.%d", b+1, br+1)}
				opCursor := batchStart

				procs := 1 + rng.Intn(3)
				for p := 0; p < procs; p++ {
					proc := Procedure{ProcedureName: fmt.Sprintf("Procedure %d", p+1)}
					procStart := opCursor
					ops := 2 + rng.Intn(3)
					for o := 0; o < ops; o++ {
						dur := time.Duration(2+rng.Intn(10)) * time.Hour
						op := Operation{
							OperationName: fmt.Sprintf("Op %d.%d", p+1, o+1),
							StartDate:     NewTime(opCursor),
							EndDate:       NewTime(opCursor.Add(dur)),
						}
						if rng.Intn(5) == 0 {
							mid := opCursor.Add(dur / 2)
							op.Breaks = []Interval{{StartDate: NewTime(mid), EndDate: NewTime(mid.Add(30 * time.Minute))}}
						}
						proc.Operations = append(proc.Operations, op)
						opCursor = opCursor.Add(dur)
					}
					proc.StartDate, proc.EndDate = NewTime(procStart), NewTime(opCursor)
					section.Procedures = append(section.Procedures, proc)
				}

				section.StartDate, section.EndDate = NewTime(batchStart), NewTime(opCursor)
				branch.StartDate, branch.EndDate = section.StartDate, section.EndDate
				branch.Sections = []Section{section}
				batch.Branches = append(batch.Branches, branch)
				if opCursor.After(branchEnd) {
					branchEnd = opCursor
				}
			}

			batch.StartDate, batch.EndDate = NewTime(batchStart), NewTime(branchEnd)
			camp.Batches = append(camp.Batches, batch)
			batchCursor = branchEnd
		}

		camp.StartDate, camp.EndDate = NewTime(campStart), NewTime(batchCursor)
		f.Campaigns = append(f.Campaigns, camp)
		cursor = campStart.Add(time.Duration(12+rng.Intn(36)) * time.Hour)
	}
	return f
}

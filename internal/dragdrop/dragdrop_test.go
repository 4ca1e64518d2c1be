package dragdrop

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/fixture"
	"github.com/alexanderramin/ganttkit/internal/flatten"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func bar(id, entity int, start time.Time) domain.Bar {
	return domain.Bar{ID: id, BarEntityID: entity, StartDate: start, EndDate: start.Add(time.Hour)}
}

func twoRows() []domain.Row {
	return []domain.Row{
		{ID: 1, Bars: []domain.Bar{bar(1, 10, t0), bar(2, 10, t0.Add(20*time.Minute)), bar(3, 11, t0)}, ChildRows: []domain.Row{
			{ID: 2, Bars: []domain.Bar{bar(4, 12, t0)}, ChildRows: []domain.Row{}},
		}},
	}
}

func drop(b domain.Bar, from, to domain.Row, initialX, finalX time.Time) domain.DropInfo {
	return domain.DropInfo{Bar: b, InitialRow: from, FinalRow: to, InitialPositionX: initialX, FinalPositionX: finalX}
}

func TestOffset(t *testing.T) {
	b := bar(1, 10, t0)
	info := drop(b, domain.Row{}, domain.Row{}, t0.Add(30*time.Minute), t0.Add(2*time.Hour))

	assert.Equal(t, 90*time.Minute, Offset(info, FromInitialPosition))
	assert.Equal(t, 2*time.Hour, Offset(info, FromBarStart))
}

func TestApplyToRows_SameRowShiftsGroup(t *testing.T) {
	rows := twoRows()
	info := drop(rows[0].Bars[0], rows[0], rows[0], t0, t0.Add(time.Hour))

	res, ok := ApplyToRows(rows, info, FromInitialPosition)

	require.True(t, ok)
	assert.Equal(t, 2, res.Moved)
	assert.False(t, res.RowChanged)
	assert.Equal(t, time.Hour, res.Offset)
	assert.Equal(t, t0.Add(time.Hour), rows[0].Bars[0].StartDate)
	assert.Equal(t, t0.Add(80*time.Minute), rows[0].Bars[1].StartDate)
	assert.Equal(t, t0, rows[0].Bars[2].StartDate, "other entities stay put")
}

func TestApplyToRows_MovesGroupToFinalRow(t *testing.T) {
	rows := twoRows()
	child := rows[0].ChildRows[0]
	info := drop(rows[0].Bars[1], rows[0], child, t0, t0.Add(-time.Hour))

	res, ok := ApplyToRows(rows, info, FromInitialPosition)

	require.True(t, ok)
	assert.True(t, res.RowChanged)
	assert.Equal(t, []int{3}, ids(rows[0].Bars))
	assert.Equal(t, []int{4, 1, 2}, ids(rows[0].ChildRows[0].Bars))
	assert.Equal(t, t0.Add(-time.Hour), rows[0].ChildRows[0].Bars[1].StartDate)
}

func TestApplyToRows_UngroupedBarMovesAlone(t *testing.T) {
	rows := []domain.Row{{ID: 1, Bars: []domain.Bar{bar(1, 0, t0), bar(2, 0, t0)}}}
	info := drop(rows[0].Bars[0], rows[0], rows[0], t0, t0.Add(time.Minute))

	res, ok := ApplyToRows(rows, info, FromBarStart)

	require.True(t, ok)
	assert.Equal(t, 1, res.Moved)
	assert.Equal(t, t0, rows[0].Bars[1].StartDate)
}

func TestApplyToRows_MissingLookupsLeaveRowsUntouched(t *testing.T) {
	base := twoRows()
	tests := []struct {
		name string
		info domain.DropInfo
	}{
		{"unknown initial row", drop(base[0].Bars[0], domain.Row{ID: 99}, base[0], t0, t0.Add(time.Hour))},
		{"unknown final row", drop(base[0].Bars[0], base[0], domain.Row{ID: 99}, t0, t0.Add(time.Hour))},
		{"bar not in initial row", drop(base[0].ChildRows[0].Bars[0], base[0], base[0], t0, t0.Add(time.Hour))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := twoRows()
			_, ok := ApplyToRows(rows, tt.info, FromInitialPosition)
			assert.False(t, ok)
			assert.Empty(t, cmp.Diff(twoRows(), rows))
		})
	}
}

func TestApplyToRows_ZeroOffsetIsIdentity(t *testing.T) {
	rows := twoRows()
	info := drop(rows[0].Bars[0], rows[0], rows[0], t0, t0)

	_, ok := ApplyToRows(rows, info, FromInitialPosition)

	require.True(t, ok)
	assert.Empty(t, cmp.Diff(twoRows(), rows))
}

func TestApplyToRows_OffsetsAreAdditive(t *testing.T) {
	a, b := 40*time.Minute, -15*time.Minute

	stepwise := twoRows()
	_, ok := ApplyToRows(stepwise, drop(stepwise[0].Bars[0], stepwise[0], stepwise[0], t0, t0.Add(a)), FromInitialPosition)
	require.True(t, ok)
	_, ok = ApplyToRows(stepwise, drop(stepwise[0].Bars[0], stepwise[0], stepwise[0], t0, t0.Add(b)), FromInitialPosition)
	require.True(t, ok)

	once := twoRows()
	_, ok = ApplyToRows(once, drop(once[0].Bars[0], once[0], once[0], t0, t0.Add(a+b)), FromInitialPosition)
	require.True(t, ok)

	assert.Empty(t, cmp.Diff(once, stepwise))
}

func ids(bars []domain.Bar) []int {
	out := make([]int, 0, len(bars))
	for _, b := range bars {
		out = append(out, b.ID)
	}
	return out
}

func sampleSchedule(t *testing.T) *fixture.Schedule {
	t.Helper()
	data, err := fixture.EmbeddedSource{}.Open(context.Background(), "scheduler")
	require.NoError(t, err)
	s, err := fixture.ParseSchedule(data)
	require.NoError(t, err)
	return s
}

func scheduleRows(s *fixture.Schedule) []domain.Row {
	return flatten.Schedule(s, flatten.ScheduleOptions{}, flatten.NewIDGen()).Rows
}

func TestApplyToSchedule_MovesProcedureBetweenEquipment(t *testing.T) {
	s := sampleSchedule(t)
	rows := scheduleRows(s)
	harvest := rows[1].Bars[1]
	require.Equal(t, domain.EntityProcedure, harvest.BarEntityType)
	require.Equal(t, 11, harvest.BarEntityID)

	info := drop(harvest, rows[1], rows[2], harvest.StartDate, harvest.StartDate.Add(2*time.Hour))
	res, ok := ApplyToSchedule(s, info)

	require.True(t, ok)
	assert.Equal(t, 2*time.Hour, res.Offset)
	assert.Equal(t, 1, res.Moved)

	src, dst := s.FindEquipment(1), s.FindEquipment(2)
	require.Len(t, src.ProcEntryTasks, 1)
	assert.Equal(t, 10, src.ProcEntryTasks[0].ProcedureID)
	assert.Equal(t, 1, *src.RowsRequired)

	require.Len(t, dst.ProcEntryTasks, 1)
	moved := dst.ProcEntryTasks[0]
	assert.Equal(t, 11, moved.ProcedureID)
	assert.Equal(t, 1, *moved.Row)
	assert.Empty(t, moved.ConflictIndexes)
	assert.Equal(t, 1, *moved.OpEntryTasks[0].Row)
	assert.Equal(t, time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC), moved.StartDate.Time)
	assert.Equal(t, time.Date(2024, 3, 4, 22, 0, 0, 0, time.UTC), moved.OpEntryTasks[0].StartDate.Time)
	assert.Equal(t, 1, *dst.RowsRequired)
}

func TestApplyToSchedule_SameEquipmentKeepsOneCopy(t *testing.T) {
	s := sampleSchedule(t)
	rows := scheduleRows(s)
	fed := rows[0].Bars[4]

	_, ok := ApplyToSchedule(s, drop(fed, rows[0], rows[1], fed.StartDate, fed.StartDate.Add(time.Hour)))

	require.True(t, ok)
	e := s.FindEquipment(1)
	require.Len(t, e.ProcEntryTasks, 2)
	assert.Equal(t, 11, e.ProcEntryTasks[0].ProcedureID)
	assert.Equal(t, 10, e.ProcEntryTasks[1].ProcedureID)
	assert.Equal(t, 2, *e.RowsRequired, "harvest still sits on row 2")
}

func TestApplyToSchedule_ShiftsStandaloneOperations(t *testing.T) {
	s := sampleSchedule(t)
	rows := scheduleRows(s)
	steam := rows[2].Bars[0]
	require.Equal(t, 200, steam.BarEntityID)
	staffBefore := s.Staff[0].OpEntryTasks[0].StartDate

	res, ok := ApplyToSchedule(s, drop(steam, rows[2], rows[2], time.Time{}, steam.StartDate.Add(-30*time.Minute)))

	require.True(t, ok)
	assert.Equal(t, 1, res.Moved)
	op := s.FindEquipment(2).OpEntryTasks[0]
	assert.Equal(t, time.Date(2024, 3, 4, 11, 30, 0, 0, time.UTC), op.StartDate.Time)
	assert.Equal(t, time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC), op.EndDate.Time)
	assert.Equal(t, staffBefore, s.Staff[0].OpEntryTasks[0].StartDate)
}

func TestApplyToSchedule_FailedLookupsLeaveFixtureUntouched(t *testing.T) {
	s := sampleSchedule(t)
	rows := scheduleRows(s)
	fed := rows[0].Bars[4]

	tests := []struct {
		name string
		info domain.DropInfo
	}{
		{"unknown source equipment", drop(fed, domain.Row{RowEntityID: 99}, rows[2], fed.StartDate, fed.StartDate)},
		{"unknown destination equipment", drop(fed, rows[0], domain.Row{RowEntityID: 99}, fed.StartDate, fed.StartDate)},
		{"procedure not on source", drop(fed, rows[2], rows[0], fed.StartDate, fed.StartDate)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sampleSchedule(t)
			_, ok := ApplyToSchedule(got, tt.info)
			assert.False(t, ok)
			assert.Empty(t, cmp.Diff(sampleSchedule(t), got))
		})
	}
}

func TestApplyToSchedule_ZeroOffsetKeepsTimes(t *testing.T) {
	s := sampleSchedule(t)
	rows := scheduleRows(s)
	steam := rows[2].Bars[0]

	_, ok := ApplyToSchedule(s, drop(steam, rows[2], rows[2], steam.StartDate, steam.StartDate))

	require.True(t, ok)
	assert.Empty(t, cmp.Diff(sampleSchedule(t), s))
}

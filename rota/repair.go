package rota

import (
	"fmt"
	"sort"
	"time"

	"shiftrota/models"
)

// Report summarizes one repair invocation.
type Report struct {
	Message     string              `json:"message"`
	Departments []string            `json:"departments"`
	Dates       map[string][]string `json:"dates"`
	Inserted    int                 `json:"inserted"`
	Deleted     int                 `json:"deleted"`
}

// GenerateOrRepair brings the schedule for the remaining Saturdays of year in
// line with current staff, holidays and cadence rules. Rows marked override
// are never deleted or rewritten. All staged writes commit in one transaction,
// and a second invocation with no intervening change produces zero writes.
func (s *Service) GenerateOrRepair(year int) (*Report, error) {
	if year <= 0 {
		year = s.now().Year()
	}

	start := ComingSaturday(s.now())
	end := LastSaturdayOfYear(year)
	report := &Report{Dates: map[string][]string{}}
	if start.After(end) {
		report.Message = fmt.Sprintf("no Saturdays remaining in %d", year)
		return report, nil
	}

	holidays, err := s.store.Holidays()
	if err != nil {
		return nil, err
	}
	holidaySet := make(map[time.Time]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[Day(h.Date)] = true
	}

	var targets []time.Time
	for _, d := range SaturdaysBetween(start, end) {
		if !holidaySet[d] {
			targets = append(targets, d)
		}
	}

	departments, err := s.store.Departments()
	if err != nil {
		return nil, err
	}

	var inserts []models.Schedule
	var deleteIDs []uint
	for i := range departments {
		touched, err := s.repairDepartment(&departments[i], start, targets, &inserts, &deleteIDs)
		if err != nil {
			return nil, err
		}
		if len(touched) > 0 {
			report.Departments = append(report.Departments, departments[i].Name)
			report.Dates[departments[i].Name] = touched
		}
	}

	if len(inserts) == 0 && len(deleteIDs) == 0 {
		report.Message = "schedule is complete, no repair needed"
		return report, nil
	}

	if err := s.store.Apply(inserts, deleteIDs); err != nil {
		return nil, err
	}
	report.Message = "schedule repaired for future dates"
	report.Inserted = len(inserts)
	report.Deleted = len(deleteIDs)
	return report, nil
}

func (s *Service) repairDepartment(dept *models.Department, start time.Time, targets []time.Time, inserts *[]models.Schedule, deleteIDs *[]uint) ([]string, error) {
	rule := RuleFor(dept.Name)

	members := make([]models.Employee, len(dept.Employees))
	copy(members, dept.Employees)
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	memberByID := make(map[uint]*models.Employee, len(members))
	for i := range members {
		memberByID[members[i].ID] = &members[i]
	}

	// Rotation pool minus department carve-outs (fixed member, paired
	// substitute). Those employees are assigned through their own slots.
	var pool []models.Employee
	for i := range members {
		if !rule.ExcludedFromRotation(&members[i], members) {
			pool = append(pool, members[i])
		}
	}

	future, err := s.store.Schedules(ScheduleFilter{DepartmentID: dept.ID, From: &start})
	if err != nil {
		return nil, err
	}
	rowsByDate := make(map[time.Time][]models.Schedule)
	futureEmp := make(map[uint]bool)
	for _, row := range future {
		d := Day(row.Date)
		rowsByDate[d] = append(rowsByDate[d], row)
		futureEmp[row.EmployeeID] = true
	}

	// Employees with no future row are newcomers: they enter the fairness
	// queue at the tail, then the pointer is aligned to resume after the last
	// confirmed worker.
	var veterans, newcomers []models.Employee
	for _, e := range pool {
		if futureEmp[e.ID] {
			veterans = append(veterans, e)
		} else {
			newcomers = append(newcomers, e)
		}
	}

	reg := NewRegistry(veterans)
	for _, e := range newcomers {
		reg.Append(e)
	}
	prev, err := s.store.SchedulesOnLastDateBefore(dept.ID, start)
	if err != nil {
		return nil, err
	}
	realignToLastWorker(reg, prev)

	cell := &cellRepair{
		rule:       rule,
		dept:       dept,
		members:    members,
		memberByID: memberByID,
		reg:        reg,
	}

	var touched []string
	for _, d := range targets {
		before := len(*inserts) + len(*deleteIDs)
		// Each date indexes against its own year's Saturday sequence, so a run
		// whose window reaches into a later year keeps that year's phase.
		cell.repair(d, WeekIndexWithinYear(d, d.Year()), rowsByDate[d], inserts, deleteIDs)
		if len(*inserts)+len(*deleteIDs) != before {
			touched = append(touched, d.Format("2006-01-02"))
		}
	}
	return touched, nil
}

// realignToLastWorker resumes the round-robin after the last confirmed worker:
// when the given rows contain exactly one current rotation member, the next
// draw is whoever follows them in assignment order.
func realignToLastWorker(reg *Registry, rows []models.Schedule) {
	var worker uint
	count := 0
	for _, row := range rows {
		if reg.Contains(row.EmployeeID) {
			worker = row.EmployeeID
			count++
		}
	}
	if count == 1 {
		reg.RealignAfter(worker)
	}
}

// cellRepair reconciles one (department, date) cell at a time. Each cell ends
// in one of four states: off (cadence wants nothing), satisfied (required
// coverage already present), filled (was missing, now staged), or locked by an
// override row.
type cellRepair struct {
	rule       Rule
	dept       *models.Department
	members    []models.Employee
	memberByID map[uint]*models.Employee
	reg        *Registry
}

func (c *cellRepair) repair(date time.Time, week int, rows []models.Schedule, inserts *[]models.Schedule, deleteIDs *[]uint) {
	// Overrides survive unconditionally. Non-override rows survive the first
	// pass only if they name a current member and do not duplicate an
	// employee already assigned that date.
	var overrides, live []models.Schedule
	assigned := make(map[uint]bool)
	for _, row := range rows {
		if row.Override {
			overrides = append(overrides, row)
			assigned[row.EmployeeID] = true
		}
	}
	for _, row := range rows {
		if row.Override {
			continue
		}
		if _, member := c.memberByID[row.EmployeeID]; !member || assigned[row.EmployeeID] {
			*deleteIDs = append(*deleteIDs, row.ID)
			continue
		}
		live = append(live, row)
		assigned[row.EmployeeID] = true
	}

	if !c.rule.OnWeek(week) {
		// Off week: generated rows must not exist. Overrides stay.
		for _, row := range live {
			*deleteIDs = append(*deleteIDs, row.ID)
		}
		return
	}

	add := func(employeeID uint) {
		*inserts = append(*inserts, models.Schedule{
			Date:         date,
			DepartmentID: c.dept.ID,
			EmployeeID:   employeeID,
		})
		assigned[employeeID] = true
	}

	switch c.rule.Strategy {
	case StrategyIndexed:
		c.repairIndexed(week, overrides, live, add, deleteIDs)
	case StrategyGroupRoster:
		c.repairGroupRoster(week, live, assigned, add, deleteIDs)
	case StrategyFixedPlusRotation:
		c.repairFixedPlusRotation(overrides, live, assigned, add, deleteIDs)
	case StrategyRotationWithPair:
		c.repairRotationWithPair(overrides, live, assigned, add, deleteIDs)
	default:
		c.repairRotation(overrides, live, add, deleteIDs)
	}
}

func (c *cellRepair) repairRotation(overrides, live []models.Schedule, add func(uint), deleteIDs *[]uint) {
	if len(overrides) > 0 {
		// Slot locked by hand; anything generated on top is surplus.
		for _, row := range live {
			*deleteIDs = append(*deleteIDs, row.ID)
		}
		return
	}
	if len(live) > 0 {
		for _, row := range live[1:] {
			*deleteIDs = append(*deleteIDs, row.ID)
		}
		c.reg.RealignAfter(live[0].EmployeeID)
		return
	}
	if draw := c.reg.Advance(); draw != nil {
		add(draw.ID)
	}
}

func (c *cellRepair) repairIndexed(week int, overrides, live []models.Schedule, add func(uint), deleteIDs *[]uint) {
	if len(c.members) == 0 {
		for _, row := range live {
			*deleteIDs = append(*deleteIDs, row.ID)
		}
		return
	}
	if len(overrides) > 0 {
		for _, row := range live {
			*deleteIDs = append(*deleteIDs, row.ID)
		}
		return
	}
	want := c.members[c.rule.PickIndex(week, len(c.members))]
	found := false
	for _, row := range live {
		if row.EmployeeID == want.ID && !found {
			found = true
			continue
		}
		*deleteIDs = append(*deleteIDs, row.ID)
	}
	if !found {
		add(want.ID)
	}
}

func (c *cellRepair) repairGroupRoster(week int, live []models.Schedule, assigned map[uint]bool, add func(uint), deleteIDs *[]uint) {
	group := GroupForWeek(week)
	required := make(map[uint]bool)
	for _, e := range c.members {
		if e.GroupNum != nil && *e.GroupNum == group {
			required[e.ID] = true
		}
	}
	for _, row := range live {
		if !required[row.EmployeeID] {
			*deleteIDs = append(*deleteIDs, row.ID)
		}
	}
	for _, e := range c.members {
		if required[e.ID] && !assigned[e.ID] {
			add(e.ID)
		}
	}
}

func (c *cellRepair) repairFixedPlusRotation(overrides, live []models.Schedule, assigned map[uint]bool, add func(uint), deleteIDs *[]uint) {
	fixed := c.rule.FixedMember(c.members)

	fixedCovered := false
	rotationCovered := 0
	for _, row := range overrides {
		if fixed != nil && row.EmployeeID == fixed.ID {
			fixedCovered = true
		} else {
			rotationCovered++
		}
	}
	var keptRotation *models.Schedule
	for i := range live {
		row := &live[i]
		if fixed != nil && row.EmployeeID == fixed.ID {
			if fixedCovered {
				*deleteIDs = append(*deleteIDs, row.ID)
				continue
			}
			fixedCovered = true
			continue
		}
		if rotationCovered >= 1 {
			*deleteIDs = append(*deleteIDs, row.ID)
			continue
		}
		rotationCovered = 1
		keptRotation = row
	}

	// No matching fixed member in the department silently omits that slot.
	if fixed != nil && !fixedCovered {
		add(fixed.ID)
	}
	if rotationCovered == 0 {
		cand := c.reg.AdvanceWhere(func(e models.Employee) bool { return !assigned[e.ID] })
		if cand != nil {
			add(cand.ID)
		}
		return
	}
	if keptRotation != nil && rotationCovered == 1 {
		c.reg.RealignAfter(keptRotation.EmployeeID)
	}
}

func (c *cellRepair) repairRotationWithPair(overrides, live []models.Schedule, assigned map[uint]bool, add func(uint), deleteIDs *[]uint) {
	if len(overrides) > 0 {
		for _, row := range live {
			*deleteIDs = append(*deleteIDs, row.ID)
		}
		return
	}

	primary := c.rule.PairPrimary(c.members)
	substitute := c.rule.PairSubstitute(c.members)

	if primary != nil && containsEmployee(live, primary.ID) {
		// Primary confirmed: the substitute rides along, everyone else on
		// the slot is surplus.
		for _, row := range live {
			if row.EmployeeID == primary.ID {
				continue
			}
			if substitute != nil && row.EmployeeID == substitute.ID {
				continue
			}
			*deleteIDs = append(*deleteIDs, row.ID)
		}
		if substitute != nil && !assigned[substitute.ID] {
			add(substitute.ID)
		}
		c.reg.RealignAfter(primary.ID)
		return
	}

	// Without the primary, only a rotation member can hold the slot. A
	// substitute row left behind after the primary departs is surplus and the
	// slot refills from the registry.
	var kept *models.Schedule
	for i := range live {
		row := &live[i]
		if kept == nil && c.reg.Contains(row.EmployeeID) {
			kept = row
			continue
		}
		*deleteIDs = append(*deleteIDs, row.ID)
	}
	if kept != nil {
		c.reg.RealignAfter(kept.EmployeeID)
		return
	}

	draw := c.reg.Advance()
	if draw == nil {
		return
	}
	add(draw.ID)
	if primary != nil && draw.ID == primary.ID && substitute != nil && !assigned[substitute.ID] {
		add(substitute.ID)
	}
}

func containsEmployee(rows []models.Schedule, employeeID uint) bool {
	for _, row := range rows {
		if row.EmployeeID == employeeID {
			return true
		}
	}
	return false
}

package rota

import (
	"strings"

	"shiftrota/models"
)

// Department names carrying special cadence rules. Any department not listed
// in ruleTable gets the default weekly single-slot rule.
const (
	DeptDispatch      = "Dispatch (MOD)"
	DeptCSR           = "CSR"
	DeptSpecOpsOffice = "Spec Ops office"
	DeptAuto          = "Auto"
	DeptShop          = "Shop"
	DeptDAL           = "DAL"
	DeptCAR           = "CAR"
	DeptARL           = "ARL"
	DeptColDen        = "COL/DEN"
	DeptSpecOps       = "Spec Ops"
)

// Strategy selects how an on-week's slot(s) get filled.
type Strategy int

const (
	// StrategyRotation draws one employee from the round-robin registry.
	StrategyRotation Strategy = iota
	// StrategyIndexed picks deterministically from the sorted employee list
	// using the week index; it never consults the rotation pointer, so
	// repeated repairs of the same week are idempotent regardless of order.
	StrategyIndexed
	// StrategyGroupRoster assigns every member of the week's group.
	StrategyGroupRoster
	// StrategyFixedPlusRotation always assigns the fixed member and draws one
	// more from the rotation.
	StrategyFixedPlusRotation
	// StrategyRotationWithPair draws one from rotation; drawing the pair
	// primary also assigns the paired substitute.
	StrategyRotationWithPair
)

// Rule is a department's declarative cadence configuration.
type Rule struct {
	CycleLength int
	OnPositions []int
	Strategy    Strategy

	// PickDivisor, when non-zero, indexes StrategyIndexed picks by
	// weekIndex/PickDivisor instead of the position within the cycle.
	PickDivisor int

	// FixedMemberPrefix names the always-on employee by case-insensitive name
	// prefix. The fixed member never enters the rotation.
	FixedMemberPrefix string

	// PairPrimaryName (exact match) and PairSubstitutePrefix (case-insensitive
	// prefix) describe the substitute pairing. The substitute never enters the
	// rotation; they are injected whenever the primary is drawn.
	PairPrimaryName      string
	PairSubstitutePrefix string

	// MultiSlot departments may hold several rows per (department, date).
	MultiSlot bool
}

var defaultRule = Rule{CycleLength: 1, OnPositions: []int{0}, Strategy: StrategyRotation}

var ruleTable = map[string]Rule{
	DeptAuto: {
		CycleLength: 2,
		OnPositions: []int{0},
		Strategy:    StrategyIndexed,
		PickDivisor: 2,
	},
	DeptDAL: {
		CycleLength: 4,
		OnPositions: []int{0, 1},
		Strategy:    StrategyIndexed,
	},
	DeptColDen: {
		CycleLength: 4,
		OnPositions: []int{0, 1, 2},
		Strategy:    StrategyIndexed,
		MultiSlot:   true,
	},
	DeptSpecOps: {
		CycleLength: 4,
		OnPositions: []int{0, 1, 2, 3},
		Strategy:    StrategyGroupRoster,
		MultiSlot:   true,
	},
	DeptCAR: {
		CycleLength:       1,
		OnPositions:       []int{0},
		Strategy:          StrategyFixedPlusRotation,
		FixedMemberPrefix: "corey",
		MultiSlot:         true,
	},
	DeptShop: {
		CycleLength:          1,
		OnPositions:          []int{0},
		Strategy:             StrategyRotationWithPair,
		PairPrimaryName:      "Edwin",
		PairSubstitutePrefix: "tommy",
	},
}

// RuleFor returns the cadence rule for a department name.
func RuleFor(departmentName string) Rule {
	if rule, ok := ruleTable[departmentName]; ok {
		return rule
	}
	return defaultRule
}

// OnWeek reports whether the given year-wide week index is an on week.
func (r Rule) OnWeek(weekIndex int) bool {
	pos := weekIndex % r.CycleLength
	for _, on := range r.OnPositions {
		if pos == on {
			return true
		}
	}
	return false
}

// PickIndex is the deterministic StrategyIndexed selection into a sorted
// employee list of length n.
func (r Rule) PickIndex(weekIndex, n int) int {
	if n == 0 {
		return 0
	}
	if r.PickDivisor > 0 {
		return (weekIndex / r.PickDivisor) % n
	}
	return (weekIndex % r.CycleLength) % n
}

// GroupForWeek is the group number on duty in the group-rostered department.
func GroupForWeek(weekIndex int) int {
	return weekIndex%4 + 1
}

// FixedMember finds the rule's always-on employee among members, or nil.
func (r Rule) FixedMember(members []models.Employee) *models.Employee {
	if r.FixedMemberPrefix == "" {
		return nil
	}
	return findByPrefix(members, r.FixedMemberPrefix)
}

// PairPrimary finds the pairing's primary employee by exact name, or nil.
func (r Rule) PairPrimary(members []models.Employee) *models.Employee {
	if r.PairPrimaryName == "" {
		return nil
	}
	for i := range members {
		if strings.TrimSpace(members[i].Name) == r.PairPrimaryName {
			return &members[i]
		}
	}
	return nil
}

// PairSubstitute finds the pairing's substitute employee, or nil.
func (r Rule) PairSubstitute(members []models.Employee) *models.Employee {
	if r.PairSubstitutePrefix == "" {
		return nil
	}
	return findByPrefix(members, r.PairSubstitutePrefix)
}

// ExcludedFromRotation reports whether an employee must not be drawn directly
// from this department's rotation (fixed members and paired substitutes).
func (r Rule) ExcludedFromRotation(e *models.Employee, members []models.Employee) bool {
	if fixed := r.FixedMember(members); fixed != nil && fixed.ID == e.ID {
		return true
	}
	if sub := r.PairSubstitute(members); sub != nil && sub.ID == e.ID {
		return true
	}
	return false
}

func findByPrefix(members []models.Employee, prefix string) *models.Employee {
	for i := range members {
		name := strings.ToLower(strings.TrimSpace(members[i].Name))
		if strings.HasPrefix(name, prefix) {
			return &members[i]
		}
	}
	return nil
}

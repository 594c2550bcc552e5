package rota

import (
	"sort"

	"shiftrota/models"
)

// Registry is a department's circular round-robin queue, rebuilt from current
// membership at the start of every repair run and never persisted.
type Registry struct {
	emps []models.Employee
}

// NewRegistry builds a registry from the given employees ordered by ID
// ascending, which is the stable assignment order.
func NewRegistry(emps []models.Employee) *Registry {
	sorted := make([]models.Employee, len(emps))
	copy(sorted, emps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &Registry{emps: sorted}
}

func (r *Registry) Len() int {
	return len(r.emps)
}

// PeekNext returns the employee at the head without advancing, or nil if the
// registry is empty.
func (r *Registry) PeekNext() *models.Employee {
	if len(r.emps) == 0 {
		return nil
	}
	return &r.emps[0]
}

// Advance returns the head and rotates it to the tail.
func (r *Registry) Advance() *models.Employee {
	if len(r.emps) == 0 {
		return nil
	}
	head := r.emps[0]
	r.emps = append(r.emps[1:], head)
	return &head
}

// AdvanceWhere draws the first employee matching ok and requeues them at the
// tail. Employees passed over keep their position, so being skipped costs no
// turn. Returns nil if nobody matches.
func (r *Registry) AdvanceWhere(ok func(models.Employee) bool) *models.Employee {
	for i, e := range r.emps {
		if ok(e) {
			picked := e
			r.emps = append(append(r.emps[:i], r.emps[i+1:]...), picked)
			return &picked
		}
	}
	return nil
}

func (r *Registry) Contains(employeeID uint) bool {
	for _, e := range r.emps {
		if e.ID == employeeID {
			return true
		}
	}
	return false
}

// RealignAfter rotates the registry so that the given employee sits at the
// tail: the next Advance draws whoever follows them in assignment order.
// Reports whether the employee was found.
func (r *Registry) RealignAfter(employeeID uint) bool {
	for i, e := range r.emps {
		if e.ID == employeeID {
			r.emps = append(r.emps[i+1:], r.emps[:i+1]...)
			return true
		}
	}
	return false
}

// Append adds an employee at the tail. Used for staff added since the last
// repair, so they join the fairness queue without displacing anyone.
func (r *Registry) Append(e models.Employee) {
	r.emps = append(r.emps, e)
}

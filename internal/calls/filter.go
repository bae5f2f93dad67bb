package calls

// FilterSpec narrows a normalized table before analysis. All filtering
// happens here, upstream of the analytics packages; the analytic core
// never sees filter state. A zero FilterSpec matches every record.
type FilterSpec struct {
	UseCases       []string
	Statuses       []CallStatus
	Tasks          []TaskCompletion
	MinDuration    float64
	MaxDuration    float64 // 0 = unbounded
	ExcludeNumbers []string
}

// Apply returns the records matching the spec, in input order. The input
// slice is not modified.
func (f FilterSpec) Apply(records []Record) []Record {
	useCases := toSet(f.UseCases)
	statuses := toSet(f.Statuses)
	tasks := toSet(f.Tasks)
	excluded := toSet(f.ExcludeNumbers)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if len(useCases) > 0 && !useCases[r.UseCase] {
			continue
		}
		if len(statuses) > 0 && !statuses[r.Status] {
			continue
		}
		if len(tasks) > 0 && !tasks[r.Task] {
			continue
		}
		if r.Duration < f.MinDuration {
			continue
		}
		if f.MaxDuration > 0 && r.Duration > f.MaxDuration {
			continue
		}
		if excluded[r.Number] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func toSet[T comparable](values []T) map[T]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[T]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

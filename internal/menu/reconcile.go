package menu

import (
	"sort"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

// MaxReconcileIterations bounds the trimming loop.
const MaxReconcileIterations = 200

// Tactic names one kind of trimming mutation.
type Tactic string

const (
	TacticReduceSets  Tactic = "reduce_sets"
	TacticDropItem    Tactic = "drop_item"
	TacticDropSection Tactic = "drop_section"
	TacticReduceMain  Tactic = "reduce_main"
)

// Step records one applied mutation.
type Step struct {
	Tactic  Tactic
	Section string
	Before  int
	After   int
}

// Report describes a Reconcile run. Converged is false when the menu
// still exceeds the target after no tactic applied or the iteration cap
// was hit.
type Report struct {
	Target      int
	InitialTime int
	FinalTime   int
	Iterations  int
	Converged   bool
	Steps       []Step
}

// Reconcile trims m until its total time fits target. Each iteration
// applies exactly one mutation, chosen by trying in order: decrement a
// repetition count, drop a trailing item, drop a non-main section,
// decrement within the main section. Sections are visited by trim rank
// so cool-down goes first and main goes last. The input is not mutated.
func Reconcile(m domain.GeneratedMenu, target int) (domain.GeneratedMenu, Report) {
	cur := Estimate(m)
	report := Report{Target: target, InitialTime: cur.TotalTime}

	for report.Iterations < MaxReconcileIterations {
		if cur.TotalTime <= target {
			break
		}
		next, step, ok := trimOnce(cur)
		if !ok {
			break
		}
		next = Estimate(next)
		step.Before, step.After = cur.TotalTime, next.TotalTime
		report.Steps = append(report.Steps, step)
		report.Iterations++
		cur = next
	}

	report.FinalTime = cur.TotalTime
	report.Converged = cur.TotalTime <= target
	return cur, report
}

// trimOnce applies the first applicable tactic to a clone of m.
func trimOnce(m domain.GeneratedMenu) (domain.GeneratedMenu, Step, bool) {
	out := m.Clone()
	order := trimOrder(out)

	// Decrement the last item with sets > 1.
	for _, si := range order {
		if reduceSets(&out.Sections[si]) {
			return out, Step{Tactic: TacticReduceSets, Section: out.Sections[si].Name}, true
		}
	}

	// Drop the trailing item of a multi-item section.
	for _, si := range order {
		sec := &out.Sections[si]
		if len(sec.Items) > 1 {
			sec.Items = sec.Items[:len(sec.Items)-1]
			return out, Step{Tactic: TacticDropItem, Section: sec.Name}, true
		}
	}

	// Drop a whole non-main section while more than one remains.
	if len(out.Sections) > 1 {
		for _, si := range order {
			if out.Sections[si].ResolvedRole() != domain.RoleMain {
				name := out.Sections[si].Name
				out.Sections = append(out.Sections[:si], out.Sections[si+1:]...)
				return out, Step{Tactic: TacticDropSection, Section: name}, true
			}
		}
	}

	// Force-reduce within main. Tactic 1 already visits main last, so
	// this only fires if trimOrder ever stops covering every section.
	for i := range out.Sections {
		if out.Sections[i].ResolvedRole() == domain.RoleMain {
			if reduceSets(&out.Sections[i]) {
				return out, Step{Tactic: TacticReduceMain, Section: out.Sections[i].Name}, true
			}
			break
		}
	}

	return m, Step{}, false
}

// reduceSets decrements the last item in sec whose sets exceed 1.
func reduceSets(sec *domain.MenuSection) bool {
	for j := len(sec.Items) - 1; j >= 0; j-- {
		if sec.Items[j].Sets > 1 {
			sec.Items[j].Sets--
			return true
		}
	}
	return false
}

// trimOrder returns section indexes sorted by trim rank, keeping menu
// order between sections of equal rank.
func trimOrder(m domain.GeneratedMenu) []int {
	order := make([]int, len(m.Sections))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return m.Sections[order[a]].ResolvedRole().TrimRank() < m.Sections[order[b]].ResolvedRole().TrimRank()
	})
	return order
}

package schedule

import (
	"errors"
	"testing"
	"time"
)

// twoJobProblem: два станка типа 1, один станок типа 2, окно два часа.
func twoJobProblem(t *testing.T, c Criterion) *Problem {
	t.Helper()
	jobs := []Job{
		{ID: 1, Priority: 3, Duration: 30 * time.Minute, StartTime: at(0), DueDate: at(2 * time.Hour), MachineTypeID: 1, Status: JobPending},
		{ID: 2, Priority: 1, Duration: time.Hour, StartTime: at(0), MachineTypeID: 1, Status: JobPending},
	}
	machines := []Machine{
		{ID: 10, Name: "M1", MachineTypeID: 1, Status: MachineAvailable},
		{ID: 11, Name: "M2", MachineTypeID: 1, Status: MachineAvailable},
		{ID: 20, Name: "P1", MachineTypeID: 2, Status: MachineAvailable},
	}
	w, err := NewTimeWindow(jobs, t0)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	cfg, err := Configure(c)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	p, err := NewProblem(jobs, machines, w, GenerateGrains(w), cfg)
	if err != nil {
		t.Fatalf("problem: %v", err)
	}
	return p
}

func TestProblem_Precompute(t *testing.T) {
	p := twoJobProblem(t, CriterionPriority)
	if len(p.Grains) != 121 {
		t.Fatalf("expected 121 grains, got %d", len(p.Grains))
	}
	if p.Span(0) != 30 || p.Span(1) != 60 {
		t.Errorf("spans = %d, %d", p.Span(0), p.Span(1))
	}
	if got := p.LatestStart(0); got != 90 {
		t.Errorf("latest start = %d, want 90", got)
	}
	if c := p.Candidates(0); len(c) != 2 || c[0] != 0 || c[1] != 1 {
		t.Errorf("candidates = %v", c)
	}
	if p.Compatible(0, 2) {
		t.Errorf("job of type 1 must not fit machine of type 2")
	}
}

func TestScorer_MachineConflict(t *testing.T) {
	p := twoJobProblem(t, CriterionPriority)
	s, err := NewScorer(p)
	if err != nil {
		t.Fatalf("scorer: %v", err)
	}
	as := []Assignment{{Job: 0, Machine: 0, Grain: 0}, {Job: 1, Machine: 0, Grain: 10}}
	sc := s.MustScore(as)
	if sc.Hard != -1 {
		t.Fatalf("overlap on one machine: hard = %d, want -1", sc.Hard)
	}

	// второй стартует ровно в момент окончания первого
	as[1].Grain = 30
	if sc := s.MustScore(as); sc.Hard != 0 {
		t.Fatalf("back-to-back jobs must not conflict, hard = %d", sc.Hard)
	}
}

func TestScorer_DueDateViolation(t *testing.T) {
	as := []Assignment{{Job: 0, Machine: 0, Grain: 91}, {Job: 1, Machine: 1, Grain: 0}}

	p := twoJobProblem(t, CriterionPriority)
	s, _ := NewScorer(p)
	if sc := s.MustScore(as); sc.Hard != -1 {
		t.Errorf("priority criterion: hard = %d, want -1", sc.Hard)
	}

	p = twoJobProblem(t, CriterionDueDate)
	s, _ = NewScorer(p)
	if sc := s.MustScore(as); sc.Hard != -DominantWeight {
		t.Errorf("due-date criterion: hard = %d, want -%d", sc.Hard, DominantWeight)
	}

	as[0].Grain = 90
	if sc := s.MustScore(as); sc.Hard != 0 {
		t.Errorf("start at latest grain is on time, hard = %d", sc.Hard)
	}
}

func TestScorer_SoftTerms(t *testing.T) {
	p := twoJobProblem(t, CriterionPriority)
	s, _ := NewScorer(p)
	as := []Assignment{{Job: 0, Machine: 0, Grain: 0}, {Job: 1, Machine: 1, Grain: 10}}

	b, err := s.Breakdown(as)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if b.PriorityPenalty != 10 {
		t.Errorf("priority penalty = %d, want 10", b.PriorityPenalty)
	}
	if b.DurationPenalty != 10 {
		t.Errorf("duration penalty = %d, want 10", b.DurationPenalty)
	}
	if b.LoadImbalance != 0 {
		t.Errorf("balanced machines: imbalance = %d", b.LoadImbalance)
	}
	if b.Resolved != 2 {
		t.Errorf("resolved = %d", b.Resolved)
	}
	if sc := s.Weigh(b); sc != (Score{Hard: 0, Soft: -10010}) {
		t.Errorf("score = %s, want 0hard/-10010soft", sc)
	}

	// обе работы на одном станке
	as[1] = Assignment{Job: 1, Machine: 0, Grain: 30}
	b, _ = s.Breakdown(as)
	if b.LoadImbalance != 4 {
		t.Errorf("imbalance = %d, want 4", b.LoadImbalance)
	}
}

func TestScorer_PriorityOrderingPreferred(t *testing.T) {
	p := twoJobProblem(t, CriterionPriority)
	s, _ := NewScorer(p)
	high := s.MustScore([]Assignment{{Job: 0, Machine: 0, Grain: 0}, {Job: 1, Machine: 0, Grain: 30}})
	low := s.MustScore([]Assignment{{Job: 0, Machine: 0, Grain: 60}, {Job: 1, Machine: 0, Grain: 0}})
	if !high.BetterThan(low) {
		t.Fatalf("high priority first (%s) should beat low priority first (%s)", high, low)
	}
}

func TestScorer_UnresolvedIgnored(t *testing.T) {
	p := twoJobProblem(t, CriterionDuration)
	s, _ := NewScorer(p)
	as := p.NewAssignments()
	sc, err := s.Score(as)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if sc != (Score{}) {
		t.Fatalf("empty assignment should score 0hard/0soft, got %s", sc)
	}
}

func TestScorer_RejectsBadAssignments(t *testing.T) {
	p := twoJobProblem(t, CriterionPriority)
	s, _ := NewScorer(p)

	if _, err := s.Score([]Assignment{{Job: 0, Machine: 2, Grain: 0}, {Job: 1, Machine: Unassigned, Grain: Unassigned}}); err == nil {
		t.Errorf("expected type mismatch error")
	}
	if _, err := s.Score([]Assignment{{Job: 0, Machine: 0, Grain: Unassigned}, {Job: 1, Machine: Unassigned, Grain: Unassigned}}); err == nil {
		t.Errorf("expected half resolved error")
	}
	if _, err := s.Score(p.NewAssignments()[:1]); err == nil {
		t.Errorf("expected length error")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("MustScore should panic on bad input")
		}
	}()
	s.MustScore([]Assignment{{Job: 0, Machine: 0, Grain: 500}, {Job: 1, Machine: Unassigned, Grain: Unassigned}})
}

func TestNewProblem_Validation(t *testing.T) {
	cfg, _ := Configure(CriterionPriority)
	w := TimeWindow{StartSeconds: 0, EndSeconds: 600}
	if _, err := NewProblem(nil, nil, w, GenerateGrains(w), cfg); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("no jobs: expected ErrInvalidInput, got %v", err)
	}
	jobs := []Job{{ID: 1, Duration: -time.Second}}
	if _, err := NewProblem(jobs, nil, w, GenerateGrains(w), cfg); err == nil {
		t.Errorf("negative duration must be rejected")
	}
	jobs = []Job{{ID: 1}, {ID: 1}}
	if _, err := NewProblem(jobs, nil, w, GenerateGrains(w), cfg); err == nil {
		t.Errorf("duplicate ids must be rejected")
	}
}

func TestMissingMachineTypes(t *testing.T) {
	jobs := []Job{{ID: 1, MachineTypeID: 2}, {ID: 2, MachineTypeID: 1}, {ID: 3, MachineTypeID: 2}, {ID: 4, MachineTypeID: 3}}
	machines := []Machine{{ID: 1, MachineTypeID: 1, Status: MachineAvailable}}
	got := MissingMachineTypes(jobs, machines)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("missing types = %v, want [2 3]", got)
	}
}

func TestEligibility(t *testing.T) {
	jobs := []Job{
		{ID: 1, Status: JobPending, StartTime: at(0)},
		{ID: 2, Status: JobPending},
		{ID: 3, Status: JobScheduled, StartTime: at(0)},
	}
	got := EligibleJobs(jobs)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("eligible = %+v", got)
	}
	ms := AvailableMachines([]Machine{{ID: 1, Status: MachineBusy}, {ID: 2, Status: MachineAvailable}})
	if len(ms) != 1 || ms[0].ID != 2 {
		t.Fatalf("available = %+v", ms)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("boom")
	var err error = &SolverFailure{Criterion: CriterionDuration, Cause: cause}
	if !errors.Is(err, ErrSolverFailure) || !errors.Is(err, cause) {
		t.Errorf("SolverFailure must match sentinel and cause")
	}
	err = &NoAvailableMachinesError{MachineTypes: []int64{4, 7}}
	if !errors.Is(err, ErrNoAvailableMachines) {
		t.Errorf("NoAvailableMachinesError must match sentinel")
	}
	if err.Error() != "no available machines for machine types [4,7]" {
		t.Errorf("message = %q", err.Error())
	}
}

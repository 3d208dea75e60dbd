package check

import (
	"io"
	"log/slog"

	"github.com/roach88/outlint/internal/method"
	"github.com/roach88/outlint/internal/schema"
)

// Status is the outcome of one rule in a Report.
type Status string

const (
	StatusPassed        Status = "passed"
	StatusFailed        Status = "failed"
	StatusSkipped       Status = "skipped"        // named in Bundle.SkipChecks
	StatusNotApplicable Status = "not-applicable" // ShouldRun returned false
)

// Outcome records what one rule did during an evaluation.
type Outcome struct {
	Rule     string   `json:"rule"`
	Status   Status   `json:"status"`
	Messages []string `json:"messages,omitempty"`
}

// Report is the result of evaluating one invocation.
type Report struct {
	Method   string    `json:"method"`
	Kind     string    `json:"kind"`
	Outcomes []Outcome `json:"outcomes"`
}

// Messages returns every violation message in evaluation order.
func (r *Report) Messages() []string {
	var msgs []string
	for _, o := range r.Outcomes {
		msgs = append(msgs, o.Messages...)
	}
	return msgs
}

// Passed reports whether no rule produced a message.
func (r *Report) Passed() bool {
	for _, o := range r.Outcomes {
		if len(o.Messages) > 0 {
			return false
		}
	}
	return true
}

// Err returns the report as a *CheckError, or nil when it passed.
func (r *Report) Err() error {
	msgs := r.Messages()
	if len(msgs) == 0 {
		return nil
	}
	return &CheckError{Method: r.Method, Messages: msgs}
}

// Runner selects and runs the rules that apply to an invocation.
//
// A Runner holds no per-invocation state and is safe for concurrent use.
type Runner struct {
	registry *Registry
	logger   *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for debug output about skipped and failing rules.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithRegistry replaces the built-in rule catalog.
func WithRegistry(registry *Registry) RunnerOption {
	return func(r *Runner) {
		r.registry = registry
	}
}

// NewRunner creates a Runner over the default registry with logging discarded.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: DefaultRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Evaluate runs every applicable rule and records each outcome.
//
// Rules of the method's kind are taken in registry order. A rule named in
// bundle.SkipChecks is skipped without consulting ShouldRun; a rule whose
// ShouldRun returns false is not applicable. A method path of no known kind
// yields an empty report.
func (r *Runner) Evaluate(methodPath string, result any, app *schema.App, bundle Bundle) *Report {
	kind := method.Classify(methodPath)
	report := &Report{Method: methodPath, Kind: kind.String()}

	for _, rule := range r.registry.ForKind(kind) {
		if bundle.Skips(rule) {
			r.logger.Debug("check skipped", "rule", rule.Name, "method", methodPath)
			report.Outcomes = append(report.Outcomes, Outcome{Rule: rule.Name, Status: StatusSkipped})
			continue
		}
		if rule.ShouldRun != nil && !rule.ShouldRun(methodPath, bundle, app) {
			report.Outcomes = append(report.Outcomes, Outcome{Rule: rule.Name, Status: StatusNotApplicable})
			continue
		}

		msgs := rule.Run(methodPath, result, app)
		if len(msgs) == 0 {
			report.Outcomes = append(report.Outcomes, Outcome{Rule: rule.Name, Status: StatusPassed})
			continue
		}
		r.logger.Debug("check failed", "rule", rule.Name, "method", methodPath, "violations", len(msgs))
		report.Outcomes = append(report.Outcomes, Outcome{Rule: rule.Name, Status: StatusFailed, Messages: msgs})
	}

	return report
}

// Run checks result and returns it untouched when every applicable rule
// passes. Otherwise it returns a *CheckError carrying all messages.
func (r *Runner) Run(methodPath string, result any, app *schema.App, bundle Bundle) (any, error) {
	if err := r.Evaluate(methodPath, result, app, bundle).Err(); err != nil {
		return nil, err
	}
	return result, nil
}

var defaultRunner = NewRunner()

// Run checks result with the default runner. See Runner.Run.
func Run(methodPath string, result any, app *schema.App, bundle Bundle) (any, error) {
	return defaultRunner.Run(methodPath, result, app, bundle)
}

package lifecycle

import "context"

// Task is a long-running unit of work that should run until ctx is
// cancelled, returning nil in that case.
type Task func(ctx context.Context) error

// taskResult pairs a task's name with its outcome, used internally to
// report which task ended a FailFastGroup run.
type taskResult struct {
	name string
	err  error
}

// FailFastGroup runs a set of named tasks concurrently under a shared
// context. The moment any one of them returns, for any reason, the
// remaining tasks are cancelled and Run returns that first task's name and
// error. This mirrors running a set of cooperative tasks with try_join
// semantics: the group is only as healthy as its least healthy member.
type FailFastGroup struct {
	tasks map[string]Task
}

// NewFailFastGroup creates an empty group.
func NewFailFastGroup() *FailFastGroup {
	return &FailFastGroup{tasks: make(map[string]Task)}
}

// Add registers a task under name. Tasks are keyed by name: adding a task
// under a name that is already registered replaces the earlier task, which
// Run then never starts.
func (g *FailFastGroup) Add(name string, task Task) {
	g.tasks[name] = task
}

// Run starts every registered task and blocks until the first one returns.
// It cancels the context passed to all tasks, waits for them to unwind, and
// reports which task returned first and with what error (nil on a clean
// stop, e.g. ctx itself was already cancelled by the caller).
func (g *FailFastGroup) Run(ctx context.Context) (name string, err error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan taskResult, len(g.tasks))
	for n, t := range g.tasks {
		n, t := n, t
		go func() {
			results <- taskResult{name: n, err: t(runCtx)}
		}()
	}

	first := <-results
	cancel()

	for range len(g.tasks) - 1 {
		<-results
	}

	return first.name, first.err
}

package session

import (
	"context"
	"sync"

	"shopsmart/api/models"
)

// Task is an analysis running in the background.
type Task struct {
	done      chan struct{}
	once      sync.Once
	result    models.Insight
	discarded bool
}

func (t *Task) finish(result models.Insight, discarded bool) {
	t.once.Do(func() {
		t.result = result
		t.discarded = discarded
		close(t.done)
	})
}

// Done is closed once the analysis has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result is the analysis outcome. Only meaningful after Done is closed.
func (t *Task) Result() models.Insight {
	<-t.done
	return t.result
}

// Discarded reports whether the log was cleared while the analysis ran, in
// which case the result was never displayed.
func (t *Task) Discarded() bool {
	<-t.done
	return t.discarded
}

// Wait blocks until the analysis returns or ctx is done.
func (t *Task) Wait(ctx context.Context) (models.Insight, error) {
	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		return models.Insight{}, ctx.Err()
	}
}

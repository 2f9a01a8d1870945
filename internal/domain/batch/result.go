package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one record in a batch operation.
type Result struct {
	id     int64
	status ItemStatus
	err    error
}

// NewOK creates a successful batch result.
func NewOK(id int64) Result { return Result{id: id, status: StatusOK} }

// NewError creates a failed batch result.
func NewError(id int64, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the record identifier.
func (r Result) ID() int64 { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Report accumulates item results of one batch run. The zero value is ready to use.
type Report struct {
	succeeded int
	failures  []Result
}

// Add records one item outcome.
func (r *Report) Add(res Result) {
	if res.status == StatusOK {
		r.succeeded++
		return
	}
	r.failures = append(r.failures, res)
}

// Merge folds another report into r.
func (r *Report) Merge(other Report) {
	r.succeeded += other.succeeded
	r.failures = append(r.failures, other.failures...)
}

// Succeeded returns the number of successful items.
func (r *Report) Succeeded() int { return r.succeeded }

// Failed returns the number of failed items.
func (r *Report) Failed() int { return len(r.failures) }

// Total returns the number of processed items.
func (r *Report) Total() int { return r.succeeded + len(r.failures) }

// Failures returns the failed items in processing order.
func (r *Report) Failures() []Result { return r.failures }

package directive

type queued struct {
	src       Source
	directive Directive
}

// Queue collects deferred directives during one main pass. A new Queue is
// used for every recompute.
type Queue struct {
	entries []queued
	visited map[string]bool
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{visited: map[string]bool{}}
}

// Len returns the number of queued directives.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Directives returns the queued directives in order.
func (q *Queue) Directives() []Directive {
	out := make([]Directive, len(q.entries))
	for i, e := range q.entries {
		out[i] = e.directive
	}
	return out
}

func (q *Queue) visit(key string) bool {
	if q.visited[key] {
		return false
	}
	q.visited[key] = true
	return true
}

func (q *Queue) push(src Source, d Directive) {
	q.entries = append(q.entries, queued{src: src, directive: d})
}

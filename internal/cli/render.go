package cli

import (
	"fmt"
	"io"
	"sync"

	"go-task-tracker/internal/model"
)

// renderer prints each notification once, when it first shows up in the
// queue. Dismissals are silent.
type renderer struct {
	w    io.Writer
	mu   sync.Mutex
	seen map[string]struct{}
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{w: w, seen: make(map[string]struct{})}
}

func (r *renderer) render(queue []model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := make(map[string]struct{}, len(queue))
	for _, n := range queue {
		live[n.ID] = struct{}{}
		if _, ok := r.seen[n.ID]; ok {
			continue
		}
		fmt.Fprintf(r.w, "[%s] %s\n", n.Category, n.Message)
	}
	r.seen = live
}

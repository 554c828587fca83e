package service

import "sync"

// ToastKind is the severity of a toast.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is one global notification waiting to be shown.
type Toast struct {
	Kind    ToastKind
	Message string
}

// Toasts queues notifications until the next page render drains them.
type Toasts struct {
	mu    sync.Mutex
	queue []Toast
}

// Success queues a success toast.
func (t *Toasts) Success(message string) { t.push(ToastSuccess, message) }

// Error queues an error toast.
func (t *Toasts) Error(message string) { t.push(ToastError, message) }

func (t *Toasts) push(kind ToastKind, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queue = append(t.queue, Toast{Kind: kind, Message: message})
}

// Drain returns the queued toasts in order and empties the queue.
func (t *Toasts) Drain() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.queue
	t.queue = nil
	return out
}

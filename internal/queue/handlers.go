package queue

import (
	"github.com/hibiken/asynq"
)

type HandlersRegistry struct {
	mux   *asynq.ServeMux
	types []string
}

func NewHandlersRegistry() *HandlersRegistry {
	return &HandlersRegistry{
		mux: asynq.NewServeMux(),
	}
}

func (r *HandlersRegistry) Register(taskType string, handler asynq.Handler) {
	r.mux.Handle(taskType, handler)
	r.types = append(r.types, taskType)
}

// Types lists registered task types in registration order.
func (r *HandlersRegistry) Types() []string {
	return append([]string(nil), r.types...)
}

func (r *HandlersRegistry) Mux() *asynq.ServeMux {
	return r.mux
}

package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID attaches a request correlation ID to the context so timed
// operations down the stack log under it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Time logs the duration of an operation on return. Use with defer and a
// pointer to the named error:
//
//	defer obs.Time(ctx, "buildPlanModel")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		prefix := ""
		if reqID != "" {
			prefix = "req_id=" + reqID + " "
		}
		if errp != nil && *errp != nil {
			log.Printf("%sop=%s dur=%dms err=%v", prefix, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("%sop=%s dur=%dms", prefix, name, dur.Milliseconds())
	}
}

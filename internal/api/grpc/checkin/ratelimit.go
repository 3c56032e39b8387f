package checkin

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/safety-checkin/internal/logger"
	pb "github.com/oshokin/safety-checkin/internal/pb/v1"
)

// visitorTTL is how long an idle actor keeps its bucket.
const visitorTTL = 10 * time.Minute

// visitor is the token bucket of one actor.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per actor.
// Emergency alerts are never throttled.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether key may make a request now. Idle buckets are swept
// on the way.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, k)
		}
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}

	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// UnaryInterceptor rejects throttled requests with ResourceExhausted.
func (l *RateLimiter) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if info.FullMethod == pb.CheckInServiceTriggerAlertFullMethodName {
			return handler(ctx, req)
		}

		message, _ := req.(*structpb.Struct)
		key := pb.RequestActor(message).Key()

		if !l.Allow(key) {
			logger.WarnKV(ctx, "Rate limit exceeded", "actor", key, "method", info.FullMethod)

			return nil, status.Error(codes.ResourceExhausted, "too many requests")
		}

		return handler(ctx, req)
	}
}

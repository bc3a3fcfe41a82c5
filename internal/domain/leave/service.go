package leave

import "context"

// Service validates leave requests and, on approval, writes ON_LEAVE
// attendance days across the range atomically.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Response, error)

	Approve(ctx context.Context, req ReviewRequest) (Response, error)

	Reject(ctx context.Context, req ReviewRequest) (Response, error)

	Cancel(ctx context.Context, id string) (Response, error)

	Get(ctx context.Context, id string) (Response, error)

	ListMine(ctx context.Context, filter Filter) (ListResponse, error)

	List(ctx context.Context, filter Filter) (ListResponse, error)
}

package regularization

import "context"

// Service is the regularization request state machine. Approval is the only
// path that mutates attendance day records.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Response, error)

	Approve(ctx context.Context, req ReviewRequest) (Response, error)

	Reject(ctx context.Context, req ReviewRequest) (Response, error)

	Cancel(ctx context.Context, id string) (Response, error)

	Get(ctx context.Context, id string) (Response, error)

	ListMine(ctx context.Context, filter Filter) (ListResponse, error)

	List(ctx context.Context, filter Filter) (ListResponse, error)
}

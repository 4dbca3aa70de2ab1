package client

import (
	"context"
	"net/url"

	"campusalloc/pkg/model"
)

// AllocationsClient is a thin HTTP client for the allocations service, used
// by external callers and tooling.
type AllocationsClient struct {
	httpClient *HttpClient
}

func NewAllocationsClient(baseURL string) *AllocationsClient {
	return &AllocationsClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *AllocationsClient) Submit(ctx context.Context, req *model.SubmitRequest) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/allocations", req)
}

func (c *AllocationsClient) CancelBooking(ctx context.Context, bookingID, requesterID string) (*Response, error) {
	q := url.Values{}
	q.Set("requester_id", requesterID)
	path := "/api/v1/allocations/bookings/" + url.PathEscape(bookingID) + "?" + q.Encode()
	return c.httpClient.DELETE(ctx, path)
}

func (c *AllocationsClient) WithdrawRequest(ctx context.Context, requestID, requesterID string) (*Response, error) {
	q := url.Values{}
	q.Set("requester_id", requesterID)
	path := "/api/v1/allocations/requests/" + url.PathEscape(requestID) + "?" + q.Encode()
	return c.httpClient.DELETE(ctx, path)
}

func (c *AllocationsClient) ListBookings(ctx context.Context, resourceID string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/resources/"+url.PathEscape(resourceID)+"/bookings")
}

func (c *AllocationsClient) ListWaitlist(ctx context.Context, resourceID string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/resources/"+url.PathEscape(resourceID)+"/waitlist")
}

func (c *AllocationsClient) RequesterHistory(ctx context.Context, requesterID string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/requesters/"+url.PathEscape(requesterID)+"/history")
}

func (c *AllocationsClient) ExportSnapshot(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/snapshot")
}

func (c *AllocationsClient) RestoreSnapshot(ctx context.Context, snap *model.Snapshot) (*Response, error) {
	return c.httpClient.PUT(ctx, "/api/v1/snapshot", snap)
}

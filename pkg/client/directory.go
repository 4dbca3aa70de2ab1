package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	apperrors "campusalloc/pkg/errors"
	"campusalloc/pkg/model"
)

// DirectoryClient talks to the directory service, the registry of requesters
// and resources that the allocation engine consults before admitting work.
type DirectoryClient struct {
	httpClient *HttpClient
}

func NewDirectoryClient(baseURL string) *DirectoryClient {
	return &DirectoryClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *DirectoryClient) GetUser(ctx context.Context, id string) (*model.User, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/users/"+url.PathEscape(id))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "directory service unreachable", http.StatusServiceUnavailable)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFoundWithID("User", id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Internal(fmt.Sprintf("directory returned status %d", resp.StatusCode), nil)
	}

	var user model.User
	if err := decodeData(resp, &user); err != nil {
		return nil, apperrors.Internal("failed to decode user response", err)
	}
	return &user, nil
}

func (c *DirectoryClient) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/resources/"+url.PathEscape(id))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "directory service unreachable", http.StatusServiceUnavailable)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.NotFoundWithID("Resource", id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Internal(fmt.Sprintf("directory returned status %d", resp.StatusCode), nil)
	}

	var resource model.Resource
	if err := decodeData(resp, &resource); err != nil {
		return nil, apperrors.Internal("failed to decode resource response", err)
	}
	return &resource, nil
}

func (c *DirectoryClient) CreateUser(ctx context.Context, user *model.User) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/users", user)
}

func (c *DirectoryClient) CreateResource(ctx context.Context, resource *model.Resource) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/resources", resource)
}

func decodeData(resp *Response, target any) error {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return err
	}
	return json.Unmarshal(wrapper.Data, target)
}

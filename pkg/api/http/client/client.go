package client

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/seqward/stoker/pkg/api/http/common"
	"github.com/seqward/stoker/pkg/structs"
)

type Client struct {
	url *url.URL
}

func New(address string) (*Client, error) {
	u, err := url.Parse(address)
	return &Client{url: u}, err
}

// Stage sends a parameter bundle to hold for later submission. The body is
// the bundle itself; any one JSON document will do.
func (c *Client) Stage(params json.RawMessage) (*structs.StagedJob, error) {
	addr := c.addr(common.API_STAGED)
	var out structs.StagedJob
	return &out, genericPostRaw(addr, params, &out)
}

func (c *Client) ListStaged() ([]*structs.StagedJob, error) {
	addr := c.addr(common.API_STAGED)
	var out []*structs.StagedJob
	return out, genericGet(addr, &out)
}

func (c *Client) Staged(id string) (*structs.StagedJob, error) {
	addr := c.addr(common.WithID(common.API_STAGED_ID, id))
	var out structs.StagedJob
	return &out, genericGet(addr, &out)
}

func (c *Client) RemoveStaged(id string) (bool, error) {
	addr := c.addr(common.WithID(common.API_STAGED_ID, id))
	var out common.RemovedResponse
	return out.Removed, genericDelete(addr, &out)
}

// Submit promotes a staged record into a queued job.
func (c *Client) Submit(req *common.SubmitRequest) (*structs.Job, error) {
	addr := c.addr(common.API_JOBS)
	var out structs.Job
	return &out, genericPost(addr, req, &out)
}

func (c *Client) Job(id string) (*structs.Job, error) {
	addr := c.addr(common.WithID(common.API_JOBS_ID, id))
	var out structs.Job
	return &out, genericGet(addr, &out)
}

func (c *Client) List(opts *structs.ListOptions) ([]*structs.ListEntry, error) {
	addr := c.addr(common.API_JOBS)
	setQueryString(addr, opts)
	var out []*structs.ListEntry
	return out, genericGet(addr, &out)
}

func (c *Client) Stop(id string) (string, error) {
	addr := c.addr(common.WithID(common.API_JOBS_STOP, id))
	var out common.StopResponse
	return out.Message, genericPost(addr, nil, &out)
}

func (c *Client) Remove(id string) error {
	addr := c.addr(common.WithID(common.API_JOBS_ID, id))
	var out common.RemovedResponse
	return genericDelete(addr, &out)
}

func (c *Client) Rerun(id string) (*structs.StagedJob, error) {
	addr := c.addr(common.WithID(common.API_JOBS_RERUN, id))
	var out structs.StagedJob
	return &out, genericPost(addr, nil, &out)
}

// StreamLogs follows a job's output: the full history so far, then live
// records as the job writes them. The channel closes after the end-of-stream
// message, when ctx is done, or if the connection drops.
func (c *Client) StreamLogs(ctx context.Context, id string) (<-chan *structs.StreamMessage, error) {
	addr := c.addr(common.WithID(common.API_JOBS_LOGS, id))
	return streamMessages(ctx, addr)
}

func (c *Client) Health() error {
	addr := c.addr("/healthz")
	var out map[string]bool
	return genericGet(addr, &out)
}

func (c *Client) addr(path string) *url.URL {
	return &url.URL{Scheme: c.url.Scheme, Host: c.url.Host, Path: path}
}

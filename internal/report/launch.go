package report

import (
	"context"
	"fmt"
)

// ProjectScope provides access to resources within one report store
// project.
type ProjectScope struct {
	client  *Client
	project string
}

// Project returns a ProjectScope for the named project.
func (c *Client) Project(name string) *ProjectScope {
	return &ProjectScope{client: c, project: name}
}

// StartLaunch begins a launch and returns its UUID.
func (p *ProjectScope) StartLaunch(ctx context.Context, rq StartLaunchRQ) (string, error) {
	u := fmt.Sprintf("%s/api/v1/%s/launch", p.client.baseURL, p.project)
	var rs EntryCreatedRS
	if err := p.client.postJSON(ctx, u, "start launch", rq, &rs); err != nil {
		return "", err
	}
	return rs.ID, nil
}

// FinishLaunch ends a launch by UUID.
func (p *ProjectScope) FinishLaunch(ctx context.Context, launchUUID string, rq FinishExecutionRQ) error {
	u := fmt.Sprintf("%s/api/v1/%s/launch/%s/finish", p.client.baseURL, p.project, launchUUID)
	return p.client.putJSON(ctx, u, "finish launch", rq, nil)
}

// StartItem begins a root-level test item and returns its UUID.
func (p *ProjectScope) StartItem(ctx context.Context, rq StartItemRQ) (string, error) {
	u := fmt.Sprintf("%s/api/v1/%s/item", p.client.baseURL, p.project)
	var rs EntryCreatedRS
	if err := p.client.postJSON(ctx, u, "start item", rq, &rs); err != nil {
		return "", err
	}
	return rs.ID, nil
}

// FinishItem ends a test item by UUID with a terminal status.
func (p *ProjectScope) FinishItem(ctx context.Context, itemUUID string, rq FinishExecutionRQ) error {
	u := fmt.Sprintf("%s/api/v1/%s/item/%s", p.client.baseURL, p.project, itemUUID)
	return p.client.putJSON(ctx, u, "finish item", rq, nil)
}

// Where: internal/infra/flyio/graphql.go
// What: Organization lookup through the Fly GraphQL API.
// Why: The fly CLI has no machine-readable organization listing with viewer roles.
package flyio

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/poruru-code/fly-laravel/internal/failure"
	"go.uber.org/zap"
)

const organizationsQuery = "query {currentUser {email} organizations {nodes{id slug name type viewerRole}}}"

// PersonalOrgType marks the user's personal organization.
const PersonalOrgType = "PERSONAL"

// Organization is a Fly.io organization the user belongs to.
type Organization struct {
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	ViewerRole string `json:"viewerRole"`
}

// Label is the prompt text for the organization.
func (o Organization) Label() string {
	if o.Type == PersonalOrgType {
		return "Personal"
	}
	return o.Name
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type organizationsResponse struct {
	Data struct {
		CurrentUser struct {
			Email string `json:"email"`
		} `json:"currentUser"`
		Organizations struct {
			Nodes []Organization `json:"nodes"`
		} `json:"organizations"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// Organizations lists the organizations of the logged-in user.
func (c *Client) Organizations(ctx context.Context) ([]Organization, error) {
	token, err := c.AuthToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(graphQLRequest{Query: organizationsQuery})
	if err != nil {
		return nil, errors.Wrap(err, "encode graphql query")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build graphql request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("graphql request", zap.String("endpoint", c.endpoint))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, failure.Response("organizations request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failure.Response("read organizations response: %v", err)
	}
	c.logger.Debug("graphql response", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(raw)))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := failure.Response("organizations request returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
		if resp.StatusCode == http.StatusUnauthorized {
			err = errors.WithHint(err, "run `fly auth login` again")
		}
		return nil, err
	}

	var decoded organizationsResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, failure.Response("decode organizations response: %v", err)
	}
	if len(decoded.Errors) > 0 {
		messages := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			messages = append(messages, e.Message)
		}
		return nil, failure.Response("organizations query failed: %s", strings.Join(messages, "; "))
	}
	return decoded.Data.Organizations.Nodes, nil
}

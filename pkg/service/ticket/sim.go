package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
)

// simImpactMap maps the SIM numeric impact code onto the severity scale.
// Out-of-range impact codes fall back to SEV3.
var simImpactMap = map[int]types.Severity{
	1: types.SeveritySev1,
	2: types.SeveritySev2,
	3: types.SeveritySev3,
	4: types.SeveritySev4,
	5: types.SeveritySev5,
}

// SIM queries the SIM issue tracker for ticket severity
type SIM struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewSIM creates a SIM severity source. The client should carry a bounded
// timeout; the resolver additionally bounds each call via context.
func NewSIM(baseURL, token string, client *http.Client) *SIM {
	if client == nil {
		client = http.DefaultClient
	}
	return &SIM{
		baseURL: baseURL,
		token:   token,
		client:  client,
	}
}

// Name implements interfaces.SeveritySource
func (s *SIM) Name() types.TicketSource {
	return types.TicketSourceSim
}

type simIssueResponse struct {
	Impact int    `json:"impact"`
	Status string `json:"status"`
}

// Lookup implements interfaces.SeveritySource
func (s *SIM) Lookup(ctx context.Context, id types.TicketID) (*model.TicketInfo, error) {
	endpoint := fmt.Sprintf("%s/api/issues/%s", s.baseURL, url.PathEscape(id.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build SIM request")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "SIM request failed", goerr.V("ticketID", id))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, goerr.Wrap(model.ErrTicketNotFound, "SIM does not know the ticket",
			goerr.V("ticketID", id))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("SIM returned non-success status",
			goerr.V("status", resp.StatusCode),
			goerr.V("ticketID", id))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read SIM response")
	}

	var issue simIssueResponse
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, goerr.Wrap(err, "failed to parse SIM response",
			goerr.V("ticketID", id))
	}

	severity, ok := simImpactMap[issue.Impact]
	if !ok {
		severity = types.SeveritySev3
	}

	return &model.TicketInfo{
		Severity: severity,
		Status:   issue.Status,
	}, nil
}

var _ interfaces.SeveritySource = (*SIM)(nil)

package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
)

// Remedy queries the Remedy ticket desk. Remedy only knows coarse priority
// buckets; they map onto the middle of the severity scale and anything
// unrecognized defaults to SEV3.
type Remedy struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRemedy creates a Remedy severity source
func NewRemedy(baseURL, token string, client *http.Client) *Remedy {
	if client == nil {
		client = http.DefaultClient
	}
	return &Remedy{
		baseURL: baseURL,
		token:   token,
		client:  client,
	}
}

// Name implements interfaces.SeveritySource
func (r *Remedy) Name() types.TicketSource {
	return types.TicketSourceRemedy
}

type remedyTicketResponse struct {
	Priority string `json:"priority"`
	State    string `json:"state"`
}

func remedyPriorityToSeverity(priority string) types.Severity {
	switch strings.ToUpper(strings.TrimSpace(priority)) {
	case "HIGH":
		return types.SeveritySev2
	case "MEDIUM":
		return types.SeveritySev3
	case "LOW":
		return types.SeveritySev4
	default:
		return types.SeveritySev3
	}
}

// Lookup implements interfaces.SeveritySource
func (r *Remedy) Lookup(ctx context.Context, id types.TicketID) (*model.TicketInfo, error) {
	endpoint := fmt.Sprintf("%s/api/tickets/%s", r.baseURL, url.PathEscape(id.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build Remedy request")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "Remedy request failed", goerr.V("ticketID", id))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, goerr.Wrap(model.ErrTicketNotFound, "Remedy does not know the ticket",
			goerr.V("ticketID", id))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("Remedy returned non-success status",
			goerr.V("status", resp.StatusCode),
			goerr.V("ticketID", id))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read Remedy response")
	}

	var ticket remedyTicketResponse
	if err := json.Unmarshal(body, &ticket); err != nil {
		return nil, goerr.Wrap(err, "failed to parse Remedy response",
			goerr.V("ticketID", id))
	}

	return &model.TicketInfo{
		Severity: remedyPriorityToSeverity(ticket.Priority),
		Status:   ticket.State,
	}, nil
}

var _ interfaces.SeveritySource = (*Remedy)(nil)

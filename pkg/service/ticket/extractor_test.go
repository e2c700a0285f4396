package ticket_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cuon/pkg/domain/types"
	"github.com/secmon-lab/cuon/pkg/service/ticket"
)

func TestExtractID(t *testing.T) {
	cases := []struct {
		name     string
		link     string
		expected types.TicketID
		found    bool
	}{
		{
			name:     "sim issue link",
			link:     "https://sim.example.com/issues/P123456789",
			expected: "P123456789",
			found:    true,
		},
		{
			name:     "sim issue link singular path",
			link:     "https://sim.example.com/issue/abc-123",
			expected: "abc-123",
			found:    true,
		},
		{
			name:     "remedy ticket link",
			link:     "https://remedy.example.com/tickets/INC0012345",
			expected: "INC0012345",
			found:    true,
		},
		{
			name:     "remedy incident link",
			link:     "https://remedy.corp.example.com/incidents/INC0099",
			expected: "INC0099",
			found:    true,
		},
		{
			name:     "bare guid",
			link:     "ticket 6f1a2b3c-4d5e-6f70-8192-a3b4c5d6e7f8 attached",
			expected: "6f1a2b3c-4d5e-6f70-8192-a3b4c5d6e7f8",
			found:    true,
		},
		{
			name:     "bare project key in free text",
			link:     "see NACC-1234 for details",
			expected: "NACC-1234",
			found:    true,
		},
		{
			name:  "empty",
			link:  "",
			found: false,
		},
		{
			name:  "whitespace only",
			link:  "   ",
			found: false,
		},
		{
			name:  "not provided sentinel",
			link:  "Not provided",
			found: false,
		},
		{
			name:  "sentinel case insensitive",
			link:  "not provided",
			found: false,
		},
		{
			name:  "no recognizable id",
			link:  "https://wiki.example.com/some/page",
			found: false,
		},
		{
			name:     "host qualified form wins over bare key",
			link:     "https://sim.example.com/issues/P555 (was NACC-1)",
			expected: "P555",
			found:    true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, found := ticket.ExtractID(tc.link)
			gt.Equal(t, tc.found, found)
			gt.Equal(t, tc.expected, id)
		})
	}
}

package ticket

import (
	"regexp"
	"strings"

	"github.com/secmon-lab/cuon/pkg/domain/model"
	"github.com/secmon-lab/cuon/pkg/domain/types"
)

// idPatterns are tried in order, first match wins. Host-qualified forms come
// first so a full link resolves against the right service; the bare forms
// recover an ID embedded anywhere in free text.
var idPatterns = []*regexp.Regexp{
	// SIM issue links, e.g. https://sim.example.com/issues/P123456789
	regexp.MustCompile(`(?i)sim\.[\w.-]+/issues?/([A-Za-z0-9-]+)`),
	// Remedy ticket links, e.g. https://remedy.example.com/tickets/INC0012345
	regexp.MustCompile(`(?i)remedy\.[\w.-]+/(?:tickets?|incidents?)/([A-Za-z0-9-]+)`),
	// Bare GUID
	regexp.MustCompile(`\b([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})\b`),
	// Bare project-key form, e.g. NACC-1234
	regexp.MustCompile(`\b([A-Z][A-Z0-9]{1,9}-\d{1,8})\b`),
}

// ExtractID pulls a ticket identifier out of a free-form link string. The
// second return value is false when no identifier is present; that is an
// expected outcome for optional links, not an error.
func ExtractID(link string) (types.TicketID, bool) {
	link = strings.TrimSpace(link)
	if link == "" || strings.EqualFold(link, model.TicketLinkNotProvided) {
		return "", false
	}

	for _, re := range idPatterns {
		if m := re.FindStringSubmatch(link); m != nil {
			return types.TicketID(m[1]), true
		}
	}
	return "", false
}

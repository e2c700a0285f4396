package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cuon/pkg/domain/interfaces"
	"github.com/secmon-lab/cuon/pkg/domain/types"
	"github.com/slack-go/slack"
)

// Digest posts a periodic summary of recent escalation activity to the
// tracking channel
type Digest struct {
	repo            interfaces.Repository
	slackClient     interfaces.SlackClient
	trackingChannel types.ChannelID
	windowDays      int
}

// NewDigest creates a Digest use case over the given window
func NewDigest(repo interfaces.Repository, slackClient interfaces.SlackClient, trackingChannel types.ChannelID, windowDays int) *Digest {
	return &Digest{
		repo:            repo,
		slackClient:     slackClient,
		trackingChannel: trackingChannel,
		windowDays:      windowDays,
	}
}

// Post aggregates the trailing window and posts the summary
func (d *Digest) Post(ctx context.Context) error {
	since := time.Now().AddDate(0, 0, -d.windowDays)

	records, err := d.repo.ListRecords(ctx, since)
	if err != nil {
		return goerr.Wrap(err, "failed to load records for digest")
	}

	falseCount := 0
	stations := map[types.StationID]int{}
	for _, r := range records {
		if r.FalseEscalation {
			falseCount++
		}
		stations[r.Station]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, ":bar_chart: Escalation digest, last %d days\n\n", d.windowDays)
	fmt.Fprintf(&b, "Submissions: %d\n", len(records))
	fmt.Fprintf(&b, "Flagged as false escalations: %d\n", falseCount)
	if top := topStations(stations, 3); len(top) > 0 {
		fmt.Fprintf(&b, "Most active stations: %s\n", strings.Join(top, ", "))
	}

	_, _, err = d.slackClient.PostMessage(ctx, d.trackingChannel.String(),
		slack.MsgOptionText(b.String(), false),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post digest")
	}
	return nil
}

func topStations(counts map[types.StationID]int, n int) []string {
	type entry struct {
		station types.StationID
		count   int
	}
	entries := make([]entry, 0, len(counts))
	for station, count := range counts {
		entries = append(entries, entry{station, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].station < entries[j].station
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s (%d)", e.station, e.count))
	}
	return out
}

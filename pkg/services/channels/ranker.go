package channels

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
)

// UnknownChannel labels rows whose channel dimension came back empty so
// their sessions still reconcile with the ledger total.
const UnknownChannel = "unknown"

// OtherChannel aggregates everything ranked below the top-N cutoff.
const OtherChannel = "other"

// RankedChannel is one acquisition channel with its numeric columns
// summed over the reporting window.
type RankedChannel struct {
	Channel     string
	Sessions    float64
	Conversions float64
	Revenue     float64
}

// Ranking is the ordered channel table plus the ledger-level totals it
// must reconcile against.
type Ranking struct {
	Channels         []RankedChannel
	TotalSessions    float64
	TotalConversions float64
	TotalRevenue     float64
}

type Ranker struct {
	topN int
}

func NewRanker(topN int) *Ranker {
	return &Ranker{topN: topN}
}

// Rank groups rows by channel, sums sessions, conversions and revenue,
// and orders by sessions descending with revenue then channel name as
// tie-breaks. Rows beyond top-N collapse into a single "other" group.
func (r *Ranker) Rank(ctx context.Context, rows []domain.ChannelRow) Ranking {
	logger := zerolog.Ctx(ctx)

	grouped := make(map[string]*RankedChannel)
	var order []string
	ranking := Ranking{}

	for _, row := range rows {
		name := row.Channel
		if name == "" {
			name = UnknownChannel
		}
		g, ok := grouped[name]
		if !ok {
			g = &RankedChannel{Channel: name}
			grouped[name] = g
			order = append(order, name)
		}
		g.Sessions += row.Sessions
		g.Conversions += row.Conversions
		g.Revenue += row.Revenue

		ranking.TotalSessions += row.Sessions
		ranking.TotalConversions += row.Conversions
		ranking.TotalRevenue += row.Revenue
	}

	ranked := make([]RankedChannel, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, *grouped[name])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Sessions != ranked[j].Sessions {
			return ranked[i].Sessions > ranked[j].Sessions
		}
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].Channel < ranked[j].Channel
	})

	if r.topN > 0 && len(ranked) > r.topN {
		other := RankedChannel{Channel: OtherChannel}
		for _, g := range ranked[r.topN:] {
			other.Sessions += g.Sessions
			other.Conversions += g.Conversions
			other.Revenue += g.Revenue
		}
		ranked = append(ranked[:r.topN:r.topN], other)
	}

	logger.Debug().Int("channels", len(ranked)).Float64("sessions", ranking.TotalSessions).Msg("ranked acquisition channels")
	ranking.Channels = ranked
	return ranking
}

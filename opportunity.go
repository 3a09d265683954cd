package main

import (
	"database/sql"
	"fmt"
	"html/template"
	"math/rand"
	"slices"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/microcosm-cc/bluemonday"
)

// OpportunityTab selects between opportunities shared by every organization
// and those generated for one organization
type OpportunityTab string

const (
	TabGeneral  OpportunityTab = "general"
	TabTailored OpportunityTab = "tailored"
)

func parseOpportunityTab(s string) (OpportunityTab, error) {
	switch OpportunityTab(s) {
	case TabGeneral, TabTailored:
		return OpportunityTab(s), nil
	case "":
		return TabGeneral, nil
	}
	return "", fmt.Errorf("%w: %q", errUnknownOpportunityTab, s)
}

type Opportunity struct {
	OpportunityId  uint64        `db:"opportunity_id" json:"opportunity_id"`
	Symbol         string        `db:"symbol" json:"symbol"`
	OrgId          sql.NullInt64 `db:"org_id" json:"-"`
	Title          string        `db:"title" json:"title"`
	BodyMarkdown   string        `db:"body_markdown" json:"body_markdown"`
	CreateDatetime time.Time     `db:"create_datetime" json:"create_datetime"`
}

var opportunityPolicy = bluemonday.UGCPolicy()

// BodyHTML renders the markdown body and strips anything unsafe from it
func (o Opportunity) BodyHTML() template.HTML {
	unsafe := markdown.ToHTML([]byte(o.BodyMarkdown), nil, nil)
	return template.HTML(opportunityPolicy.SanitizeBytes(unsafe))
}

// ShuffleForDisplay returns the opportunities in a random order for the
// opportunity tables. The order has no meaning and is never stored.
func ShuffleForDisplay(opportunities []Opportunity, rnd *rand.Rand) []Opportunity {
	shuffled := slices.Clone(opportunities)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

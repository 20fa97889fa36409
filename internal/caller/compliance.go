package caller

import (
	"regexp"
	"time"

	"github.com/scrapex/outreach-engine/internal/config"
	"github.com/scrapex/outreach-engine/internal/model"
)

// phoneRe accepts North-American 10-digit numbers with an optional +1/1
// prefix and optional separators, parentheses, and spaces.
var phoneRe = regexp.MustCompile(`^\+?1?\s*\(?(\d{3})\)?[-.\s]?(\d{3})[-.\s]?(\d{4})$`)

const (
	defaultOpenHour  = 8
	defaultCloseHour = 20
)

// Gate evaluates TCPA-style pre-call checks. All checks run on every
// evaluation so the result reports each one even when an earlier check
// already blocked the call.
type Gate struct {
	dnc       map[string]struct{}
	openHour  int
	closeHour int
	now       func() time.Time
}

// GateOption adjusts gate construction.
type GateOption func(*Gate)

// WithClock overrides the wall clock used for the business-hours check.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) {
		g.now = now
	}
}

// NewGate builds a compliance gate over the given do-not-call numbers.
// Business hours default to 8..20 when the config leaves both bounds zero.
func NewGate(dnc []string, cfg config.ComplianceConfig, opts ...GateOption) *Gate {
	g := &Gate{
		dnc:       make(map[string]struct{}, len(dnc)),
		openHour:  cfg.OpenHour,
		closeHour: cfg.CloseHour,
		now:       time.Now,
	}
	for _, number := range dnc {
		g.dnc[number] = struct{}{}
	}
	if g.openHour == 0 && g.closeHour == 0 {
		g.openHour = defaultOpenHour
		g.closeHour = defaultCloseHour
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check runs the DNC, format, and hours checks against phoneNumber. The
// returned reasons follow check order, one entry per failing check.
func (g *Gate) Check(phoneNumber string) model.ComplianceResult {
	result := model.ComplianceResult{
		CanCall: true,
		Reasons: []string{},
		Checks:  make(map[model.ComplianceCheck]bool, 3),
	}

	if _, listed := g.dnc[phoneNumber]; listed {
		result.CanCall = false
		result.Reasons = append(result.Reasons, "Number is on Do Not Call list")
		result.Checks[model.CheckDNC] = false
	} else {
		result.Checks[model.CheckDNC] = true
	}

	if !phoneRe.MatchString(phoneNumber) {
		result.CanCall = false
		result.Reasons = append(result.Reasons, "Invalid phone number format")
		result.Checks[model.CheckFormat] = false
	} else {
		result.Checks[model.CheckFormat] = true
	}

	hour := g.now().Hour()
	if hour < g.openHour || hour > g.closeHour {
		result.CanCall = false
		result.Reasons = append(result.Reasons, "Outside business hours")
		result.Checks[model.CheckHours] = false
	} else {
		result.Checks[model.CheckHours] = true
	}

	return result
}

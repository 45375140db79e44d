package xlbudget

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// RuleID identifies a subtotal classification rule. Lower values take
// priority when a row matches more than one rule.
type RuleID int

const (
	RuleNone         RuleID = iota
	RuleDetailGroup         // marker column contains ">"
	RuleAccount             // 6 digits, e.g. 521211
	RuleSubComponent        // single letter
	RuleComponent           // 3 digits
	RuleOutputDetail        // DDDD.LLL.DDD
	RuleOutput              // DDDD.LLL
	RuleActivity            // 4 digits
	RuleProgram             // DDD.DD.LL
)

func (id RuleID) String() string {
	if r, ok := ruleByID(id); ok {
		return r.Name
	}
	return "none"
}

var (
	sixDigitsRe    = regexp.MustCompile(`^\d{6}$`)
	singleLetterRe = regexp.MustCompile(`^[A-Za-z]$`)
	threeDigitsRe  = regexp.MustCompile(`^\d{3}$`)
	code433Re      = regexp.MustCompile(`^\d{4}\.[A-Za-z]{3}\.\d{3}$`)
	code43Re       = regexp.MustCompile(`^\d{4}\.[A-Za-z]{3}$`)
	fourDigitsRe   = regexp.MustCompile(`^\d{4}$`)
	code322Re      = regexp.MustCompile(`^\d{3}\.\d{2}\.[A-Za-z]{2}$`)
)

// Rule classifies a row by its lead and marker text and decides which later
// rows make up its subtotal.
type Rule struct {
	ID   RuleID
	Name string
	// Matches reports whether a row belongs to this rule's level. During a
	// range scan a row matching it is a sibling and ends the scan.
	Matches func(lead, marker string) bool
	// Includes reports whether a scanned row is a direct child.
	Includes func(lead, marker string) bool
	// untilExcluded ends the scan at the first row that is not a child.
	untilExcluded bool
}

func leadIs(re *regexp.Regexp) func(lead, marker string) bool {
	return func(lead, _ string) bool { return re.MatchString(lead) }
}

func dashMarker(_, marker string) bool { return marker == "-" }

// Rules is the fixed classification table in priority order.
var Rules = []Rule{
	{
		ID: RuleDetailGroup, Name: "detail-group",
		Matches:       func(_, marker string) bool { return strings.Contains(marker, ">") },
		Includes:      dashMarker,
		untilExcluded: true,
	},
	{ID: RuleAccount, Name: "account", Matches: leadIs(sixDigitsRe), Includes: dashMarker},
	{ID: RuleSubComponent, Name: "sub-component", Matches: leadIs(singleLetterRe), Includes: leadIs(sixDigitsRe)},
	{ID: RuleComponent, Name: "component", Matches: leadIs(threeDigitsRe), Includes: leadIs(singleLetterRe)},
	{ID: RuleOutputDetail, Name: "output-detail", Matches: leadIs(code433Re), Includes: leadIs(threeDigitsRe)},
	{ID: RuleOutput, Name: "output", Matches: leadIs(code43Re), Includes: leadIs(code433Re)},
	{ID: RuleActivity, Name: "activity", Matches: leadIs(fourDigitsRe), Includes: leadIs(code43Re)},
	{ID: RuleProgram, Name: "program", Matches: leadIs(code322Re), Includes: leadIs(fourDigitsRe)},
}

func ruleByID(id RuleID) (Rule, bool) {
	for _, r := range Rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Classify returns the first rule matching the trimmed lead and marker text,
// or RuleNone.
func Classify(lead, marker string) RuleID {
	lead, marker = strings.TrimSpace(lead), strings.TrimSpace(marker)
	for _, r := range Rules {
		if r.Matches(lead, marker) {
			return r.ID
		}
	}
	return RuleNone
}

// ScanDirection selects where a subtotal row finds its children.
type ScanDirection int

const (
	// ScanBelow treats the code row as a header; children follow it.
	ScanBelow ScanDirection = iota
	// ScanAbove treats the code row as a footer; children precede it.
	ScanAbove
)

func (d ScanDirection) String() string {
	if d == ScanAbove {
		return "above"
	}
	return "below"
}

// ParseScanDirection parses "below" or "above". The empty string means below.
func ParseScanDirection(s string) (ScanDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "below":
		return ScanBelow, nil
	case "above":
		return ScanAbove, nil
	default:
		return ScanBelow, fmt.Errorf("unknown scan direction %q (want below or above)", s)
	}
}

// Subtotal is the planned outcome for one classified row.
type Subtotal struct {
	Row     int    // 0-based row of the code
	Rule    RuleID // matched rule
	Rows    []int  // child rows in top-to-bottom order
	Formula string // "" when no child was found
}

// SubtotalSynthesizer reconstructs hierarchical subtotal formulas. Each
// classified row gets =SUM over the children column of its direct children.
type SubtotalSynthesizer struct {
	LeadCol     int
	MarkerCol   int
	ChildrenCol int
	Direction   ScanDirection
}

// DefaultSubtotalSynthesizer returns the ledger layout: codes in A, markers
// in B, amounts in U.
func DefaultSubtotalSynthesizer() SubtotalSynthesizer {
	return SubtotalSynthesizer{LeadCol: 0, MarkerCol: 1, ChildrenCol: 20}
}

// Plan classifies every row and collects its children without touching the
// grid. Rows are visited bottom-up for ScanBelow and top-down for ScanAbove
// so that children are always settled before their parent.
func (s SubtotalSynthesizer) Plan(g *Grid, obs Observer) ([]Subtotal, error) {
	if err := g.Check(); err != nil {
		return nil, fmt.Errorf("subtotals: %w", err)
	}
	obs = observerOrNop(obs)
	used := g.used

	var plan []Subtotal
	visit := func(r int) {
		lead, marker := s.codes(g, r)
		id := Classify(lead, marker)
		if id == RuleNone {
			return
		}
		rule, _ := ruleByID(id)
		obs.Observe(Event{Kind: EventRuleMatched, Row: r, Rule: id})

		rows := s.collect(g, r, rule)
		obs.Observe(Event{Kind: EventRangeChosen, Row: r, Rule: id, Rows: rows})

		st := Subtotal{Row: r, Rule: id, Rows: rows}
		if len(rows) > 0 {
			refs := make([]CellRef, len(rows))
			for i, cr := range rows {
				refs[i] = NewCellRef(cr, s.ChildrenCol)
			}
			st.Formula = SumFormula(refs)
		}
		plan = append(plan, st)
	}

	if s.Direction == ScanAbove {
		for r := used.MinRow; r <= used.MaxRow; r++ {
			visit(r)
		}
	} else {
		for r := used.MaxRow; r >= used.MinRow; r-- {
			visit(r)
		}
	}
	return plan, nil
}

// Apply writes the planned formulas into the children column. Classified rows
// without children are left untouched.
func (s SubtotalSynthesizer) Apply(g *Grid, obs Observer) error {
	obs = observerOrNop(obs)
	plan, err := s.Plan(g, obs)
	if err != nil {
		return err
	}
	for _, st := range plan {
		if st.Formula == "" {
			continue
		}
		ref := NewCellRef(st.Row, s.ChildrenCol)
		writeFormula(g, ref, st.Formula)
		obs.Observe(Event{Kind: EventFormulaWritten, Row: st.Row, Rule: st.Rule, Cell: ref, Formula: st.Formula})
	}
	return nil
}

func (s SubtotalSynthesizer) codes(g *Grid, row int) (lead, marker string) {
	return g.Text(NewCellRef(row, s.LeadCol)), g.Text(NewCellRef(row, s.MarkerCol))
}

// collect scans away from row in the configured direction. A sibling ends the
// scan before the include check runs.
func (s SubtotalSynthesizer) collect(g *Grid, row int, rule Rule) []int {
	step := 1
	if s.Direction == ScanAbove {
		step = -1
	}
	used := g.used
	var rows []int
	for r := row + step; r >= used.MinRow && r <= used.MaxRow; r += step {
		lead, marker := s.codes(g, r)
		included := rule.Includes(lead, marker)
		if rule.untilExcluded {
			if !included {
				break
			}
		} else if rule.Matches(lead, marker) {
			break
		}
		if included {
			rows = append(rows, r)
		}
	}
	if step < 0 {
		slices.Reverse(rows)
	}
	return rows
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/president"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/record"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/role"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/servant"
)

// CaseFile is one reconciliation described in YAML. Amounts are decimal
// strings so nothing is lost to float parsing.
type CaseFile struct {
	RecordID   string        `yaml:"record_id"`
	Servant    casePerson    `yaml:"servant"`
	President  casePerson    `yaml:"president"`
	Role       *caseRole     `yaml:"role"`
	DailyCount *caseCount    `yaml:"daily_count"`
	Advances   []caseAdvance `yaml:"advances"`
	Documents  []caseDoc     `yaml:"documents"`
	Tickets    []caseTicket  `yaml:"tickets"`
}

type casePerson struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

type caseRole struct {
	Name           string `yaml:"name"`
	RateInState    string `yaml:"rate_in_state"`
	RateOutOfState string `yaml:"rate_out_of_state"`
}

type caseCount struct {
	DaysInState     int `yaml:"days_in_state"`
	MealsInState    int `yaml:"meals_in_state"`
	DaysOutOfState  int `yaml:"days_out_of_state"`
	MealsOutOfState int `yaml:"meals_out_of_state"`
}

type caseAdvance struct {
	Category         string `yaml:"category"`
	Number           string `yaml:"number"`
	CommitmentNumber string `yaml:"commitment_number"`
	Amount           string `yaml:"amount"`
	Date             string `yaml:"date"`
}

type caseDoc struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	Amount      string `yaml:"amount"`
}

type caseTicket struct {
	Ticket    string `yaml:"ticket"`
	Amount    string `yaml:"amount"`
	Direction string `yaml:"direction"`
}

// Case is a parsed case file. It answers the lookups the reconciliation
// and report services make, so a case runs through the same code as a
// stored record.
type Case struct {
	snapshot  record.Snapshot
	servant   servant.Servant
	president *president.President
	role      *role.Role
}

// RecordID returns the ID of the case's record
func (c *Case) RecordID() string {
	return c.snapshot.Record.RecordID
}

// LoadCase reads and parses a YAML case file
func LoadCase(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot read case file", err)
	}
	c, err := ParseCase(data)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid case file "+path, err)
	}
	return c, nil
}

// ParseCase parses a YAML case document
func ParseCase(data []byte) (*Case, error) {
	var f CaseFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	if f.RecordID == "" {
		f.RecordID = "case"
	}
	if strings.TrimSpace(f.Servant.Name) == "" {
		return nil, fmt.Errorf("servant.name is required")
	}

	c := &Case{
		snapshot: record.Snapshot{
			Record:    record.Record{RecordID: f.RecordID, ServantID: "servant"},
			Advances:  []record.Advance{},
			Documents: []record.Document{},
			Tickets:   []record.TicketExpense{},
		},
		servant: servant.Servant{ServantID: "servant", Name: f.Servant.Name, RoleName: f.Servant.Role},
	}

	if f.President.Name != "" {
		c.president = &president.President{PresidentID: "president", Name: f.President.Name}
		c.snapshot.Record.PresidentID = "president"
	}

	if f.Role != nil {
		in, err := parseAmount("role.rate_in_state", f.Role.RateInState)
		if err != nil {
			return nil, err
		}
		out, err := parseAmount("role.rate_out_of_state", f.Role.RateOutOfState)
		if err != nil {
			return nil, err
		}
		name := f.Role.Name
		if name == "" {
			name = f.Servant.Role
		}
		if c.servant.RoleName == "" {
			c.servant.RoleName = name
		}
		c.role = &role.Role{RoleID: "role", Name: name, RateInState: in, RateOutOfState: out}
	}

	if f.DailyCount != nil {
		dc := f.DailyCount
		if dc.DaysInState < 0 || dc.MealsInState < 0 || dc.DaysOutOfState < 0 || dc.MealsOutOfState < 0 {
			return nil, fmt.Errorf("daily_count values must not be negative")
		}
		c.snapshot.DailyCount = &record.DailyCount{
			RecordID:        f.RecordID,
			DaysInState:     f.DailyCount.DaysInState,
			MealsInState:    f.DailyCount.MealsInState,
			DaysOutOfState:  f.DailyCount.DaysOutOfState,
			MealsOutOfState: f.DailyCount.MealsOutOfState,
		}
	}

	seen := map[record.AdvanceCategory]bool{}
	for i, a := range f.Advances {
		category := record.AdvanceCategory(a.Category)
		if category != record.AdvancePerDiem && category != record.AdvanceTravelTicket {
			return nil, fmt.Errorf("advances[%d].category must be per_diem or travel_ticket", i)
		}
		if seen[category] {
			return nil, fmt.Errorf("advances[%d]: only one %s advance is allowed", i, category)
		}
		seen[category] = true

		amount, err := parseAmount(fmt.Sprintf("advances[%d].amount", i), a.Amount)
		if err != nil {
			return nil, err
		}
		c.snapshot.Advances = append(c.snapshot.Advances, record.Advance{
			RecordID:         f.RecordID,
			Category:         category,
			Number:           a.Number,
			CommitmentNumber: a.CommitmentNumber,
			Amount:           amount,
			Date:             a.Date,
		})
	}

	for i, d := range f.Documents {
		amount, err := parseAmount(fmt.Sprintf("documents[%d].amount", i), d.Amount)
		if err != nil {
			return nil, err
		}
		c.snapshot.Documents = append(c.snapshot.Documents, record.Document{
			DocumentID:  fmt.Sprintf("doc-%d", i+1),
			RecordID:    f.RecordID,
			Type:        d.Type,
			Description: d.Description,
			Date:        d.Date,
			Amount:      amount,
		})
	}

	for i, t := range f.Tickets {
		direction := record.TicketDirection(t.Direction)
		if direction != record.DirectionOutbound && direction != record.DirectionReturn {
			return nil, fmt.Errorf("tickets[%d].direction must be outbound or return", i)
		}
		amount, err := parseAmount(fmt.Sprintf("tickets[%d].amount", i), t.Amount)
		if err != nil {
			return nil, err
		}
		c.snapshot.Tickets = append(c.snapshot.Tickets, record.TicketExpense{
			TicketID:  fmt.Sprintf("ticket-%d", i+1),
			RecordID:  f.RecordID,
			Ticket:    t.Ticket,
			Amount:    amount,
			Direction: direction,
		})
	}

	return c, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %q is not a decimal", field, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", field)
	}
	return d, nil
}

// GetSnapshot returns the case's record
func (c *Case) GetSnapshot(ctx context.Context, recordID string) (*record.Snapshot, error) {
	if recordID != c.snapshot.Record.RecordID {
		return nil, errors.NewNotFoundError("record not found")
	}
	s := c.snapshot
	return &s, nil
}

// GetServant returns the case's servant
func (c *Case) GetServant(ctx context.Context, servantID string) (*servant.Servant, error) {
	if servantID != c.servant.ServantID {
		return nil, errors.NewNotFoundError("servant not found")
	}
	s := c.servant
	return &s, nil
}

// GetRoleByName returns the case's role when the name matches
func (c *Case) GetRoleByName(ctx context.Context, name string) (*role.Role, error) {
	if c.role == nil || c.role.Name != name {
		return nil, errors.NewNotFoundError("role not found")
	}
	r := *c.role
	return &r, nil
}

// GetPresident returns the case's president
func (c *Case) GetPresident(ctx context.Context, presidentID string) (*president.President, error) {
	if c.president == nil || presidentID != c.president.PresidentID {
		return nil, errors.NewNotFoundError("president not found")
	}
	p := *c.president
	return &p, nil
}

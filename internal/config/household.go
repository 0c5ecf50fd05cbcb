package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/kas/internal/ledger"
	"github.com/mmynk/kas/internal/period"
)

// Household is the static description of the shared fund.
type Household struct {
	Members      []string `yaml:"members"`
	Contribution string   `yaml:"contribution"`

	// Start and End are period ids such as "Juni2025", inclusive.
	Start string `yaml:"start"`
	End   string `yaml:"end"`

	Categories    []string `yaml:"categories"`
	OtherCategory string   `yaml:"other_category"`

	// SharedPayers are the fund's own accounts. Together with the members
	// they make up the accepted payers.
	SharedPayers []string `yaml:"shared_payers"`

	// InternalTransfer is the category used when contributions are logged
	// as expense rows.
	InternalTransfer string `yaml:"internal_transfer_category"`

	StatusSheet string `yaml:"status_sheet"`

	contribution decimal.Decimal
	window       period.Window
}

// DefaultHousehold returns the household the ledger was first set up for.
func DefaultHousehold() *Household {
	h := &Household{
		Members:      []string{"Yopha", "Degus", "Delon", "Dipta"},
		Contribution: "350000",
		Start:        "Juni2025",
		End:          "Desember2025",
		Categories: []string{
			"Listrik", "Wifi", "PDAM", "Galon", "Keamanan", "Beras", "Minyak",
			"Gas", "Peralatan Mandi", "Bumbu Dapur", "Lainnya",
		},
		OtherCategory:    "Lainnya",
		SharedPayers:     []string{"Kas Bersama", "Seabank"},
		InternalTransfer: "Iuran Kas Bulanan",
		StatusSheet:      "StatusIuran2025",
	}
	if err := h.Validate(); err != nil {
		panic(err)
	}
	return h
}

// LoadHousehold reads a household definition from a YAML file. Fields the
// file leaves out keep their DefaultHousehold values.
func LoadHousehold(path string) (*Household, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read household config: %w", err)
	}

	h := DefaultHousehold()
	// Derived from the start year unless the file names it.
	h.StatusSheet = ""
	if err := yaml.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("invalid household config %s: %w", path, err)
	}
	return h, nil
}

// Validate checks the definition and caches the parsed contribution and window.
func (h *Household) Validate() error {
	if len(h.Members) == 0 {
		return errors.New("at least one member is required")
	}
	if err := unique("member", h.Members); err != nil {
		return err
	}
	if err := unique("payer", h.Payers()); err != nil {
		return err
	}

	amount, err := ledger.ParseAmount(h.Contribution)
	if err != nil {
		return fmt.Errorf("invalid contribution %q: %w", h.Contribution, err)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("contribution must be positive, got %s", amount)
	}

	start, err := period.Parse(h.Start)
	if err != nil {
		return fmt.Errorf("invalid start period: %w", err)
	}
	end, err := period.Parse(h.End)
	if err != nil {
		return fmt.Errorf("invalid end period: %w", err)
	}
	window, err := period.NewWindow(start, end)
	if err != nil {
		return fmt.Errorf("invalid period window %s..%s: %w", h.Start, h.End, err)
	}

	if len(h.Categories) == 0 {
		return errors.New("at least one category is required")
	}
	if h.OtherCategory != "" && !contains(h.Categories, h.OtherCategory) {
		return fmt.Errorf("other category %q must be one of the categories", h.OtherCategory)
	}
	if h.StatusSheet == "" {
		h.StatusSheet = fmt.Sprintf("StatusIuran%d", start.Year)
	}

	h.contribution = amount
	h.window = window
	return nil
}

// ContributionAmount is the fixed amount each member owes per period.
func (h *Household) ContributionAmount() decimal.Decimal {
	return h.contribution
}

// Window is the configured range of periods.
func (h *Household) Window() period.Window {
	return h.window
}

// DefaultPeriod is the period to preselect on the given day.
func (h *Household) DefaultPeriod(today time.Time) period.Period {
	return h.window.Default(today)
}

// Payers lists everyone an expense can be attributed to.
func (h *Household) Payers() []string {
	payers := make([]string, 0, len(h.Members)+len(h.SharedPayers))
	payers = append(payers, h.Members...)
	return append(payers, h.SharedPayers...)
}

func (h *Household) IsMember(name string) bool   { return contains(h.Members, name) }
func (h *Household) IsPayer(name string) bool    { return contains(h.Payers(), name) }
func (h *Household) IsCategory(name string) bool { return contains(h.Categories, name) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func unique(kind string, list []string) error {
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		if v == "" {
			return fmt.Errorf("empty %s name", kind)
		}
		if seen[v] {
			return fmt.Errorf("duplicate %s %q", kind, v)
		}
		seen[v] = true
	}
	return nil
}

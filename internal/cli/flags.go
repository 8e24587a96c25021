package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

// periodTypeFlag is a --period-type value that rejects unknown types at
// parse time.
type periodTypeFlag struct {
	value domain.PeriodType
}

var _ pflag.Value = (*periodTypeFlag)(nil)

func newPeriodTypeFlag(def domain.PeriodType) *periodTypeFlag {
	return &periodTypeFlag{value: def}
}

func (f *periodTypeFlag) String() string { return string(f.value) }

func (f *periodTypeFlag) Set(s string) error {
	pt, err := domain.ParsePeriodType(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return err
	}
	f.value = pt
	return nil
}

func (f *periodTypeFlag) Type() string { return "weekly|monthly|quarterly|yearly" }

// addPeriodTypeFlag registers --period-type (-p) on fs.
func addPeriodTypeFlag(fs *pflag.FlagSet, f *periodTypeFlag) {
	fs.VarP(f, "period-type", "p", "Period type")
}

// periodRefFromFlags builds an explicit period from --year and --number.
// It returns nil when neither is set, meaning "latest complete period".
func periodRefFromFlags(pt domain.PeriodType, year, number int) (*domain.PeriodRef, error) {
	if year == 0 && number == 0 {
		return nil, nil
	}
	if year == 0 {
		return nil, fmt.Errorf("--number needs --year")
	}
	if pt == domain.PeriodYearly {
		return &domain.PeriodRef{Type: pt, Year: year, Number: year}, nil
	}
	if number == 0 {
		return nil, fmt.Errorf("--number is required for %s periods", pt)
	}
	return &domain.PeriodRef{Type: pt, Year: year, Number: number}, nil
}

// validateOptionalInt accepts empty or a positive integer.
func validateOptionalInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

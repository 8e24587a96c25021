package importer

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/period"
)

var (
	currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)
	structs      = newValidator()
)

// newValidator reports fields by their file keys rather than Go names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateImportSchema checks the import schema before conversion and
// returns every problem found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateTeam(&schema.Team)...)

	if len(schema.Periods) == 0 {
		errs = append(errs, fmt.Errorf("periods: at least one period is required"))
	}
	seen := make(map[domain.PeriodRef]int)
	for i := range schema.Periods {
		p := &schema.Periods[i]
		prefix := fmt.Sprintf("periods[%d]", i)
		errs = append(errs, validatePeriod(prefix, p)...)

		ref := refOf(p)
		if first, dup := seen[ref]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate of periods[%d] (%s %d/%d)", prefix, first, ref.Type, ref.Year, ref.Number))
		} else {
			seen[ref] = i
		}
	}
	return errs
}

func validateTeam(t *TeamImport) []error {
	var errs []error
	if t.Name == "" {
		errs = append(errs, fmt.Errorf("team.name is required"))
	}
	if !currencyCode.MatchString(strings.ToUpper(t.Currency)) {
		errs = append(errs, fmt.Errorf("team.currency: %q is not an ISO 4217 code", t.Currency))
	}
	if t.Locale != "" {
		if err := structs.Var(t.Locale, "bcp47_language_tag"); err != nil {
			errs = append(errs, fmt.Errorf("team.locale: invalid language tag %q", t.Locale))
		}
	}
	return errs
}

func validatePeriod(prefix string, p *PeriodImport) []error {
	var errs []error

	pt, err := domain.ParsePeriodType(p.Type)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s.type: %w", prefix, err))
	} else if p.Year < 2000 || p.Year > 2100 {
		errs = append(errs, fmt.Errorf("%s.year: %d out of range", prefix, p.Year))
	} else if info, err := period.Info(pt, p.Year, p.Number, time.UTC); err != nil {
		errs = append(errs, fmt.Errorf("%s.number: %w", prefix, err))
	} else if pt == domain.PeriodWeekly {
		if y, w := info.Start.ISOWeek(); y != p.Year || w != p.Number {
			errs = append(errs, fmt.Errorf("%s.number: %d has no ISO week %d", prefix, p.Year, p.Number))
		}
	}

	if p.Transactions < 0 {
		errs = append(errs, fmt.Errorf("%s.transactions: must not be negative", prefix))
	}
	if p.LastBankSync != nil {
		if _, err := time.Parse(time.RFC3339, *p.LastBankSync); err != nil {
			errs = append(errs, fmt.Errorf("%s.last_bank_sync: invalid timestamp %q (expected RFC 3339)", prefix, *p.LastBankSync))
		}
	}

	errs = append(errs, structErrors(prefix+".current", p.Current)...)
	errs = append(errs, structErrors(prefix+".previous", p.Previous)...)
	errs = append(errs, structErrors(prefix+".activity", p.Activity)...)
	return errs
}

// structErrors runs the validate tags on v and reports one error per field.
func structErrors(prefix string, v any) []error {
	err := structs.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []error{fmt.Errorf("%s: %w", prefix, err)}
	}
	out := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, fmt.Errorf("%s: %s failed %q (value %v)", prefix, trimRoot(fe.Namespace()), fe.Tag(), fe.Value()))
	}
	return out
}

// trimRoot drops the struct type name validator puts first in a namespace.
func trimRoot(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func refOf(p *PeriodImport) domain.PeriodRef {
	ref := domain.PeriodRef{Type: domain.PeriodType(p.Type), Year: p.Year, Number: p.Number}
	if ref.Type == domain.PeriodYearly {
		ref.Number = p.Year
	}
	return ref
}

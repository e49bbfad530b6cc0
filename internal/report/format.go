package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
)

// DefaultLocale is used when no locale is configured
const DefaultLocale = "pt-BR"

// Formatter renders monetary values for one locale.
type Formatter struct {
	tag     language.Tag
	group   string
	point   string
}

// NewFormatter creates a formatter for a BCP 47 locale such as "pt-BR"
func NewFormatter(locale string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, errors.NewInvalidInputError("invalid locale "+locale, err)
	}
	group, dec := separators(message.NewPrinter(tag))
	return &Formatter{tag: tag, group: group, point: dec}, nil
}

// separators reads the locale's grouping and decimal marks off a sample number
func separators(p *message.Printer) (group, dec string) {
	sample := p.Sprint(number.Decimal(1234567.5, number.Scale(2)))
	i := strings.Index(sample, "1")
	j := strings.Index(sample, "234")
	k := strings.Index(sample, "567")
	l := strings.LastIndex(sample, "50")
	if i < 0 || j <= i || k < j+3 || l < k+3 {
		return ",", "."
	}
	return sample[i+1 : j], sample[k+3 : l]
}

// MustFormatter is NewFormatter for locales known to be valid
func MustFormatter(locale string) *Formatter {
	f, err := NewFormatter(locale)
	if err != nil {
		panic(err)
	}
	return f
}

// Locale returns the formatter's language tag
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Money formats d with two decimals and locale separators. The sign is kept.
// Digits come from the decimal's fixed form, so no precision is lost.
func (f *Formatter) Money(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(f.group)
		}
		b.WriteRune(digit)
	}
	b.WriteString(f.point)
	b.WriteString(frac)
	return b.String()
}

// Money is a monetary value in machine and display form.
type Money struct {
	Value   string `json:"value"`
	Display string `json:"display"`
}

// NewMoney builds the two representations of d
func (f *Formatter) NewMoney(d decimal.Decimal) Money {
	return Money{
		Value:   d.StringFixed(2),
		Display: f.Money(d),
	}
}

package scenario

import (
	"fmt"

	"github.com/payform/acceptance/internal/cards"
	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/outcome"
)

// literals are the fixed edge values each entry point is exercised with.
// The two forms share rules, so they get different values of the same class.
type literals struct {
	cvcOneDigit   string
	cvcTwoDigits  string
	yearOneDigit  string
	unknownNumber string
	shortNumber   string
	monthOneDigit string
	monthAbove12  string
	holderOneChar string
	holderTooLong string
}

var kindLiterals = map[models.Kind]literals{
	models.KindDirect: {
		cvcOneDigit:   "8",
		cvcTwoDigits:  "22",
		yearOneDigit:  "8",
		unknownNumber: "5200 7643 6215 2387",
		shortNumber:   "1268 9875 4561 11",
		monthOneDigit: "9",
		monthAbove12:  "13",
		holderOneChar: "T",
		holderTooLong: "IWJDNRYFBSYRHFYTVCPQZMSHRBD TGFJVNCMDKELWOQIAJZNDTMDLMREW",
	},
	models.KindCredit: {
		cvcOneDigit:   "7",
		cvcTwoDigits:  "44",
		yearOneDigit:  "5",
		unknownNumber: "3251 4687 9856 1245",
		shortNumber:   "3256 5587 5645 22",
		monthOneDigit: "2",
		monthAbove12:  "15",
		holderOneChar: "D",
		holderTooLong: "TGFJVNCMDKELWOQIAJZNDTMDLMREW IWJDNRYFBSYRHFYTVCPQZMSHRBD ",
	},
}

func fixed(build func(g *cards.Generator, v string) models.CardSubmission, v string) func(*cards.Generator) models.CardSubmission {
	return func(g *cards.Generator) models.CardSubmission { return build(g, v) }
}

func at(o models.Outcome, f models.Field) []outcome.Expectation {
	return []outcome.Expectation{outcome.ExpectAt(o, f)}
}

// Catalog returns every scenario for the entry point of kind
func Catalog(kind models.Kind) ([]Scenario, error) {
	lit, ok := kindLiterals[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownKind, string(kind))
	}

	withNumber := (*cards.Generator).WithNumber
	withMonth := (*cards.Generator).WithMonth
	withYear := (*cards.Generator).WithYear
	withHolder := (*cards.Generator).WithHolder
	withCVC := (*cards.Generator).WithCVC

	scenarios := []Scenario{
		{
			Name:   "approved card",
			Build:  (*cards.Generator).Valid,
			Expect: []outcome.Expectation{outcome.Expect(models.Success)},
			Record: RecordStatus(models.StatusApproved),
		},
		{
			Name:   "declined card",
			Build:  fixed(withNumber, cards.DeclinedNumber),
			Expect: []outcome.Expectation{outcome.Expect(models.GenericError)},
			Record: RecordStatus(models.StatusDeclined),
		},
		{
			Name:  "all fields empty",
			Build: func(*cards.Generator) models.CardSubmission { return models.CardSubmission{} },
			Expect: []outcome.Expectation{
				outcome.ExpectAt(models.FieldFormatError, models.FieldNumber),
				outcome.ExpectAt(models.FieldFormatError, models.FieldMonth),
				outcome.ExpectAt(models.FieldFormatError, models.FieldYear),
				outcome.ExpectAt(models.EmptyFieldError, models.FieldHolder),
				outcome.ExpectAt(models.FieldFormatError, models.FieldCVC),
			},
		},
		{
			Name:   "cvc two digits short",
			Build:  fixed(withCVC, lit.cvcOneDigit),
			Expect: at(models.FieldFormatError, models.FieldCVC),
		},
		{
			Name:   "cvc one digit short",
			Build:  fixed(withCVC, lit.cvcTwoDigits),
			Expect: at(models.FieldFormatError, models.FieldCVC),
		},
		{
			Name:   "holder last name only",
			Build:  func(g *cards.Generator) models.CardSubmission { return g.WithHolder(g.LastName()) },
			Expect: at(models.FieldFormatError, models.FieldHolder),
		},
		{
			Name:   "holder first name only",
			Build:  func(g *cards.Generator) models.CardSubmission { return g.WithHolder(g.FirstName()) },
			Expect: at(models.FieldFormatError, models.FieldHolder),
		},
		{
			Name:   "year in the past",
			Build:  fixed(withYear, cards.PastYear),
			Expect: at(models.ExpiryRangeError, models.FieldYear),
		},
		{
			Name:   "year beyond horizon",
			Build:  func(g *cards.Generator) models.CardSubmission { return g.WithYear(g.YearBeyondHorizon()) },
			Expect: at(models.ExpiryFormatError, models.FieldYear),
		},
		{
			Name:   "year one digit",
			Build:  fixed(withYear, lit.yearOneDigit),
			Expect: at(models.FieldFormatError, models.FieldYear),
		},
		{
			Name:   "year zeros",
			Build:  fixed(withYear, cards.ZeroYear),
			Expect: at(models.ExpiryRangeError, models.FieldYear),
		},
		{
			Name:   "number zeros",
			Build:  fixed(withNumber, cards.ZeroNumber),
			Expect: []outcome.Expectation{outcome.Expect(models.GenericError)},
		},
		{
			Name:   "number unknown",
			Build:  fixed(withNumber, lit.unknownNumber),
			Expect: []outcome.Expectation{outcome.Expect(models.GenericError)},
		},
		{
			Name:   "number short",
			Build:  fixed(withNumber, lit.shortNumber),
			Expect: at(models.FieldFormatError, models.FieldNumber),
		},
		{
			Name:   "month zeros",
			Build:  fixed(withMonth, cards.ZeroMonth),
			Expect: at(models.ExpiryRangeError, models.FieldMonth),
		},
		{
			Name:   "month one digit",
			Build:  fixed(withMonth, lit.monthOneDigit),
			Expect: at(models.FieldFormatError, models.FieldMonth),
		},
		{
			Name:   "month above twelve",
			Build:  fixed(withMonth, lit.monthAbove12),
			Expect: at(models.ExpiryFormatError, models.FieldMonth),
		},
		{
			Name: "month expired",
			Build: func(g *cards.Generator) models.CardSubmission {
				sub := g.Valid()
				sub.Month, sub.Year = g.ExpiredMonth()
				return sub
			},
			// in January the expired month is last year's, so the year carries the marker
			Expect: []outcome.Expectation{outcome.Expect(models.ExpiryRangeError)},
		},
		{
			Name:   "holder one letter",
			Build:  fixed(withHolder, lit.holderOneChar),
			Expect: at(models.FieldFormatError, models.FieldHolder),
		},
		{
			Name:   "holder too long",
			Build:  fixed(withHolder, lit.holderTooLong),
			Expect: at(models.FieldFormatError, models.FieldHolder),
		},
		{
			Name:   "holder lowercase",
			Build:  func(g *cards.Generator) models.CardSubmission { return g.WithHolder(g.LowerCaseName()) },
			Expect: at(models.FieldFormatError, models.FieldHolder),
		},
		{
			Name:   "holder mixed case",
			Build:  func(g *cards.Generator) models.CardSubmission { return g.WithHolder(g.MixedCaseName()) },
			Expect: at(models.FieldFormatError, models.FieldHolder),
		},
		{
			Name:   "holder cyrillic",
			Build:  func(g *cards.Generator) models.CardSubmission { return g.WithHolder(g.CyrillicName()) },
			Expect: at(models.FieldFormatError, models.FieldHolder),
		},
	}

	for i := range scenarios {
		scenarios[i].Kind = kind
	}

	return scenarios, nil
}

// Find returns the scenario of kind called name
func Find(kind models.Kind, name string) (Scenario, error) {
	all, err := Catalog(kind)
	if err != nil {
		return Scenario{}, err
	}
	for _, sc := range all {
		if sc.Name == name {
			return sc, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: no %s scenario named %q", ErrInvalidScenario, kind, name)
}

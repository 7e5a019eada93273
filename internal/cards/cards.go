// Package cards produces card data for payment form scenarios.
//
// Fixed boundary values are exported as constants. Values that depend on the
// current date and names of a given shape come from a Generator, which owns its
// clock and random source; a Generator must not be shared between goroutines.
package cards

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/payform/acceptance/internal/models"
)

// Designated card numbers known to the bank emulator
const (
	ApprovedNumber = "4444 4444 4444 4441"
	DeclinedNumber = "4444 4444 4444 4442"
)

// Literal edge values
const (
	ZeroNumber = "0000 0000 0000 0000"
	ZeroMonth  = "00"
	ZeroYear   = "00"
	// PastYear is far enough back to stay expired
	PastYear = "18"
)

// HorizonYears is how far ahead an expiry date may lie
const HorizonYears = 5

var (
	firstNames = []string{
		"JAMES", "MARY", "JOHN", "PATRICIA", "ROBERT", "JENNIFER", "MICHAEL", "LINDA",
		"WILLIAM", "ELIZABETH", "DAVID", "SUSAN", "RICHARD", "JESSICA", "THOMAS", "SARAH",
	}
	lastNames = []string{
		"SMITH", "JOHNSON", "WILLIAMS", "BROWN", "JONES", "MILLER", "DAVIS", "WILSON",
		"ANDERSON", "TAYLOR", "MOORE", "JACKSON", "MARTIN", "THOMPSON", "WHITE", "HARRIS",
	}
	cyrillicFirstNames = []string{
		"Иван", "Пётр", "Алексей", "Дмитрий", "Сергей", "Анна", "Мария", "Ольга", "Елена", "Наталья",
	}
	cyrillicLastNames = []string{
		"Иванов", "Петров", "Смирнов", "Кузнецов", "Попов", "Соколов", "Лебедев", "Козлов", "Новиков", "Морозов",
	}
)

// Generator produces randomized and date-relative card data
type Generator struct {
	now func() time.Time
	rnd *rand.Rand
}

// NewGenerator creates a generator seeded with seed that reads the wall clock
func NewGenerator(seed int64) *Generator {
	return NewGeneratorWithClock(time.Now, rand.New(rand.NewSource(seed)))
}

// NewGeneratorWithClock creates a generator with an explicit clock and random source
func NewGeneratorWithClock(now func() time.Time, rnd *rand.Rand) *Generator {
	return &Generator{now: now, rnd: rnd}
}

// Valid returns a fully valid submission for the approved card
func (g *Generator) Valid() models.CardSubmission {
	return models.CardSubmission{
		Number: ApprovedNumber,
		Month:  g.ValidMonth(),
		Year:   g.ValidYear(),
		Holder: g.FullName(),
		CVC:    g.CVC(),
	}
}

// WithNumber returns a valid submission using number
func (g *Generator) WithNumber(number string) models.CardSubmission {
	sub := g.Valid()
	sub.Number = number
	return sub
}

// WithMonth returns a valid submission using month
func (g *Generator) WithMonth(month string) models.CardSubmission {
	sub := g.Valid()
	sub.Month = month
	return sub
}

// WithYear returns a valid submission using year
func (g *Generator) WithYear(year string) models.CardSubmission {
	sub := g.Valid()
	sub.Year = year
	return sub
}

// WithHolder returns a valid submission using holder
func (g *Generator) WithHolder(holder string) models.CardSubmission {
	sub := g.Valid()
	sub.Holder = holder
	return sub
}

// WithCVC returns a valid submission using cvc
func (g *Generator) WithCVC(cvc string) models.CardSubmission {
	sub := g.Valid()
	sub.CVC = cvc
	return sub
}

// nextMonth is the first day of the month after the current one
func (g *Generator) nextMonth() time.Time {
	now := g.now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
}

// ValidMonth returns the month of an expiry date one month from now
func (g *Generator) ValidMonth() string {
	return fmt.Sprintf("%02d", int(g.nextMonth().Month()))
}

// ValidYear returns the two-digit year of an expiry date one month from now
func (g *Generator) ValidYear() string {
	return twoDigitYear(g.nextMonth().Year())
}

// YearBeyondHorizon returns the first two-digit year past the accepted horizon
func (g *Generator) YearBeyondHorizon() string {
	return twoDigitYear(g.now().Year() + HorizonYears + 1)
}

// ExpiredMonth returns the month and year of last month.
// In January that month belongs to last year, so the form flags the year
// rather than the month.
func (g *Generator) ExpiredMonth() (month, year string) {
	now := g.now()
	last := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	return fmt.Sprintf("%02d", int(last.Month())), twoDigitYear(last.Year())
}

func twoDigitYear(year int) string {
	return fmt.Sprintf("%02d", year%100)
}

// CVC returns a random three digit code
func (g *Generator) CVC() string {
	return fmt.Sprintf("%03d", g.rnd.Intn(1000))
}

// FirstName returns a Latin uppercase first name
func (g *Generator) FirstName() string {
	return firstNames[g.rnd.Intn(len(firstNames))]
}

// LastName returns a Latin uppercase last name
func (g *Generator) LastName() string {
	return lastNames[g.rnd.Intn(len(lastNames))]
}

// FullName returns a Latin uppercase first and last name, the accepted shape
func (g *Generator) FullName() string {
	return g.FirstName() + " " + g.LastName()
}

// LowerCaseName returns a full name in lowercase letters
func (g *Generator) LowerCaseName() string {
	return strings.ToLower(g.FullName())
}

// MixedCaseName returns a full name with only the initials capitalized
func (g *Generator) MixedCaseName() string {
	return capitalize(g.FirstName()) + " " + capitalize(g.LastName())
}

// CyrillicName returns a full name in Cyrillic script
func (g *Generator) CyrillicName() string {
	return cyrillicFirstNames[g.rnd.Intn(len(cyrillicFirstNames))] + " " +
		cyrillicLastNames[g.rnd.Intn(len(cyrillicLastNames))]
}

func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r)
}

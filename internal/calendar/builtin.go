package calendar

import (
	"time"
)

// BuiltinProvider computes Brazilian national holidays locally.
// It never fails and needs no network.
type BuiltinProvider struct{}

// NewBuiltinProvider creates a BuiltinProvider
func NewBuiltinProvider() *BuiltinProvider {
	return &BuiltinProvider{}
}

type fixedHoliday struct {
	month     time.Month
	day       int
	name      string
	sinceYear int
}

var fixedHolidays = []fixedHoliday{
	{time.January, 1, "Confraternização Universal", 0},
	{time.April, 21, "Tiradentes", 0},
	{time.May, 1, "Dia do Trabalhador", 0},
	{time.September, 7, "Independência do Brasil", 0},
	{time.October, 12, "Nossa Senhora Aparecida", 0},
	{time.November, 2, "Finados", 0},
	{time.November, 15, "Proclamação da República", 0},
	{time.November, 20, "Dia Nacional de Zumbi e da Consciência Negra", 2024},
	{time.December, 25, "Natal", 0},
}

// Holidays returns the national holidays of the given years, sorted by date
func (p *BuiltinProvider) Holidays(years []int) ([]Holiday, error) {
	set := make(HolidaySet)
	for _, year := range years {
		for _, h := range HolidaysInYear(year) {
			set.Add(h.Date, h.Name)
		}
	}
	return set.Holidays(), nil
}

// HolidaysInYear returns the Brazilian national holidays of one year, sorted by date
func HolidaysInYear(year int) []Holiday {
	out := make([]Holiday, 0, len(fixedHolidays)+1)
	for _, f := range fixedHolidays {
		if year < f.sinceYear {
			continue
		}
		out = append(out, Holiday{
			Date: time.Date(year, f.month, f.day, 0, 0, 0, 0, time.UTC),
			Name: f.name,
		})
	}

	out = append(out, Holiday{
		Date: Easter(year).AddDate(0, 0, -2),
		Name: "Sexta-feira Santa",
	})

	sortHolidays(out)
	return out
}

// Easter returns Easter Sunday of the Gregorian calendar (anonymous algorithm)
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	dayOfMonth := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.UTC)
}

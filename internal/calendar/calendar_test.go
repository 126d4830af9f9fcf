package calendar

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/username/escala-updater/internal/schedule"
	"go.uber.org/zap"
)

func date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestEaster(t *testing.T) {
	tests := []struct {
		year int
		want time.Time
	}{
		{2024, date(2024, time.March, 31)},
		{2025, date(2025, time.April, 20)},
		{2026, date(2026, time.April, 5)},
		{2027, date(2027, time.March, 28)},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.year), func(t *testing.T) {
			if got := Easter(tt.year); !got.Equal(tt.want) {
				t.Errorf("Easter(%d) = %v, want %v", tt.year, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestHolidaysInYear(t *testing.T) {
	hs := HolidaysInYear(2026)
	if len(hs) != 10 {
		t.Fatalf("HolidaysInYear(2026) returned %d holidays, want 10", len(hs))
	}

	set := NewHolidaySet(hs...)
	for _, d := range []time.Time{
		date(2026, time.January, 1),
		date(2026, time.April, 3), // Good Friday
		date(2026, time.April, 21),
		date(2026, time.November, 20),
		date(2026, time.December, 25),
	} {
		if !set.Contains(d) {
			t.Errorf("expected %s to be a holiday", d.Format("2006-01-02"))
		}
	}

	for i := 1; i < len(hs); i++ {
		if hs[i].Date.Before(hs[i-1].Date) {
			t.Errorf("holidays not sorted at index %d", i)
		}
	}

	if NewHolidaySet(HolidaysInYear(2023)...).Contains(date(2023, time.November, 20)) {
		t.Error("November 20 must not be a national holiday before 2024")
	}
}

func TestBuiltinProvider_MultipleYears(t *testing.T) {
	hs, err := NewBuiltinProvider().Holidays([]int{2026, 2025})
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}
	if len(hs) != 20 {
		t.Errorf("Holidays() returned %d, want 20", len(hs))
	}
	if hs[0].Date.Year() != 2025 {
		t.Errorf("first holiday year = %d, want 2025", hs[0].Date.Year())
	}
}

func TestHolidaySet(t *testing.T) {
	s := make(HolidaySet)
	s.Add(time.Date(2026, 1, 25, 15, 0, 0, 0, time.UTC), "Aniversário de São Paulo")
	s.Add(date(2026, time.January, 25), "")

	if !s.Contains(date(2026, time.January, 25)) {
		t.Error("Contains() = false, want true")
	}
	if s.Name(date(2026, time.January, 25)) != "Aniversário de São Paulo" {
		t.Errorf("Name() = %q, empty name must not overwrite", s.Name(date(2026, time.January, 25)))
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	other := NewHolidaySet(Holiday{Date: date(2027, time.July, 16), Name: "X"})
	u := s.Union(other)
	if u.Len() != 2 {
		t.Errorf("Union().Len() = %d, want 2", u.Len())
	}
	if years := u.Years(); len(years) != 2 || years[0] != 2026 || years[1] != 2027 {
		t.Errorf("Years() = %v, want [2026 2027]", years)
	}
	if s.Len() != 1 {
		t.Error("Union() must not modify the receiver")
	}

	in := u.InRange(date(2026, time.January, 1), date(2026, time.December, 31))
	if len(in) != 1 || !in[0].Date.Equal(date(2026, time.January, 25)) {
		t.Errorf("InRange() = %v", in)
	}
}

func TestBuildHolidaySet(t *testing.T) {
	extra := NewHolidaySet(
		Holiday{Date: date(2026, time.January, 25), Name: ExtraHolidayName},
		Holiday{Date: date(2026, time.December, 25), Name: ExtraHolidayName},
	)

	t.Run("provider plus extras", func(t *testing.T) {
		set, err := BuildHolidaySet(NewBuiltinProvider(), []int{2026}, extra)
		if err != nil {
			t.Fatalf("BuildHolidaySet() error = %v", err)
		}
		if set.Len() != 11 {
			t.Errorf("Len() = %d, want 11 (10 national + 1 new extra)", set.Len())
		}
		if set.Name(date(2026, time.December, 25)) != "Natal" {
			t.Errorf("provider name should win, got %q", set.Name(date(2026, time.December, 25)))
		}
	})

	t.Run("no years keeps extras", func(t *testing.T) {
		set, err := BuildHolidaySet(NewBuiltinProvider(), nil, extra)
		if err != nil {
			t.Fatalf("BuildHolidaySet() error = %v", err)
		}
		if set.Len() != 2 {
			t.Errorf("Len() = %d, want 2", set.Len())
		}
	})

	t.Run("provider error", func(t *testing.T) {
		_, err := BuildHolidaySet(failingProvider{}, []int{2026}, extra)
		if err == nil {
			t.Error("BuildHolidaySet() expected error, got nil")
		}
	})
}

type failingProvider struct{}

func (failingProvider) Holidays([]int) ([]Holiday, error) {
	return nil, fmt.Errorf("boom")
}

func TestCountWorkdays(t *testing.T) {
	weekdays := schedule.Range(schedule.Monday, schedule.Friday)
	noHolidays := make(HolidaySet)
	national := NewHolidaySet(HolidaysInYear(2026)...)

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		days     schedule.WeekdaySet
		holidays HolidaySet
		want     int
	}{
		{"february weekdays", date(2026, time.February, 1), date(2026, time.February, 28), weekdays, noHolidays, 20},
		{"june every day", date(2026, time.June, 1), date(2026, time.June, 30), schedule.FullWeek, noHolidays, 30},
		{"june weekdays", date(2026, time.June, 1), date(2026, time.June, 30), weekdays, noHolidays, 22},
		{"april with good friday and tiradentes", date(2026, time.April, 1), date(2026, time.April, 30), weekdays, national, 20},
		{"start after end", date(2026, time.March, 10), date(2026, time.March, 1), schedule.FullWeek, noHolidays, 0},
		{"single qualifying day", date(2026, time.March, 2), date(2026, time.March, 2), weekdays, noHolidays, 1},
		{"single weekend day", date(2026, time.March, 1), date(2026, time.March, 1), weekdays, noHolidays, 0},
		{"single holiday", date(2026, time.April, 21), date(2026, time.April, 21), weekdays, national, 0},
		{"empty schedule", date(2026, time.March, 1), date(2026, time.March, 31), schedule.EmptySet, noHolidays, 0},
		{"time of day ignored", time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC), time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC), weekdays, noHolidays, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountWorkdays(tt.start, tt.end, tt.days, tt.holidays)
			if got != tt.want {
				t.Errorf("CountWorkdays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountWorkdays_SingleDayProperty(t *testing.T) {
	holidays := NewHolidaySet(HolidaysInYear(2026)...)
	sets := []schedule.WeekdaySet{schedule.FullWeek, schedule.Range(schedule.Monday, schedule.Friday), schedule.NewWeekdaySet(schedule.Sunday)}

	for d := date(2026, time.January, 1); d.Year() == 2026; d = d.AddDate(0, 0, 1) {
		for _, w := range sets {
			want := 0
			if w.Contains(d.Weekday()) && !holidays.Contains(d) {
				want = 1
			}
			if got := CountWorkdays(d, d, w, holidays); got != want {
				t.Fatalf("CountWorkdays(%s, %s, %s) = %d, want %d", d.Format("2006-01-02"), d.Format("2006-01-02"), w, got, want)
			}
		}
	}
}

func TestParseExtraHolidays(t *testing.T) {
	text := "25/01/2026\n\n  not a date \n 16.07.2026 \n2026-11-30\r\n"

	set := ParseExtraHolidays(text)

	if set.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", set.Len())
	}
	for _, d := range []time.Time{date(2026, time.January, 25), date(2026, time.July, 16), date(2026, time.November, 30)} {
		if !set.Contains(d) {
			t.Errorf("missing %s", d.Format("2006-01-02"))
		}
	}

	if ParseExtraHolidays("").Len() != 0 {
		t.Error("empty text must yield an empty set")
	}
}

func TestLoadExtraHolidaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feriados.txt")
	content := "# feriados municipais\n25/01/2026\ninvalid\n\n09/07/2026\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	set, err := LoadExtraHolidaysFile(path)
	if err != nil {
		t.Fatalf("LoadExtraHolidaysFile() error = %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}

	if _, err := LoadExtraHolidaysFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAPIProvider(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/api/feriados/v1/2026" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"date":"2026-01-01","name":"Confraternização mundial","type":"national"},
			{"date":"2026-04-21","name":"Tiradentes","type":"national"},
			{"date":"2027-01-01","name":"Outro ano","type":"national"}
		]`)
	}))
	defer server.Close()

	logger, _ := zap.NewDevelopment()
	p := NewAPIProvider(server.URL+"/api/feriados/v1/{year}", time.Second, time.Hour, logger)

	hs, err := p.Holidays([]int{2026})
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}
	if len(hs) != 2 {
		t.Fatalf("Holidays() returned %d, want 2", len(hs))
	}
	if hs[1].Name != "Tiradentes" || !hs[1].Date.Equal(date(2026, time.April, 21)) {
		t.Errorf("second holiday = %+v", hs[1])
	}

	if _, err := p.Holidays([]int{2026}); err != nil {
		t.Fatalf("cached Holidays() error = %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("API called %d times, want 1 (cache)", calls)
	}

	p.ClearCache()
	if _, err := p.Holidays([]int{2025}); err == nil {
		t.Error("expected error for 404 year")
	}
}

func TestAPIProvider_MatchesBuiltin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"date":"2026-01-01","name":"Confraternização mundial","type":"national"},
			{"date":"2026-02-16","name":"Carnaval","type":"national"},
			{"date":"2026-02-17","name":"Carnaval","type":"national"},
			{"date":"2026-04-03","name":"Sexta-feira Santa","type":"national"},
			{"date":"2026-04-05","name":"Páscoa","type":"national"},
			{"date":"2026-04-21","name":"Tiradentes","type":"national"},
			{"date":"2026-05-01","name":"Dia do trabalho","type":"national"},
			{"date":"2026-06-04","name":"Corpus Christi","type":"national"},
			{"date":"2026-09-07","name":"Independência do Brasil","type":"national"},
			{"date":"2026-10-12","name":"Nossa Senhora Aparecida","type":"national"},
			{"date":"2026-11-02","name":"Finados","type":"national"},
			{"date":"2026-11-15","name":"Proclamação da República","type":"national"},
			{"date":"2026-11-20","name":"Dia da consciência negra","type":"national"},
			{"date":"2026-12-25","name":"Natal","type":"national"}
		]`)
	}))
	defer server.Close()

	p := NewAPIProvider(server.URL+"/{year}", time.Second, time.Hour, zap.NewNop())
	fromAPI, err := BuildHolidaySet(p, []int{2026}, nil)
	if err != nil {
		t.Fatalf("BuildHolidaySet(api) error = %v", err)
	}
	builtin, err := BuildHolidaySet(NewBuiltinProvider(), []int{2026}, nil)
	if err != nil {
		t.Fatalf("BuildHolidaySet(builtin) error = %v", err)
	}

	for _, d := range []time.Time{
		date(2026, time.February, 16),
		date(2026, time.February, 17),
		date(2026, time.April, 5),
		date(2026, time.June, 4),
	} {
		if fromAPI.Contains(d) {
			t.Errorf("API set contains observance %s (%s)", d.Format("2006-01-02"), fromAPI.Name(d))
		}
	}

	if fromAPI.Len() != builtin.Len() {
		t.Fatalf("API set has %d days, builtin %d", fromAPI.Len(), builtin.Len())
	}
	for _, h := range builtin.Holidays() {
		if !fromAPI.Contains(h.Date) {
			t.Errorf("API set misses %s (%s)", h.Date.Format("2006-01-02"), h.Name)
		}
	}

	// same workbook, same count, whichever source answered
	days := schedule.Range(schedule.Monday, schedule.Friday)
	from, to := date(2026, time.January, 1), date(2026, time.December, 31)
	if a, b := CountWorkdays(from, to, days, fromAPI), CountWorkdays(from, to, days, builtin); a != b {
		t.Errorf("CountWorkdays api = %d, builtin = %d", a, b)
	}
}

func TestIsObservance(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Carnaval", true},
		{"Quarta-feira de Cinzas", true},
		{"Corpus Christi", true},
		{"Páscoa", true},
		{"Domingo de Pascoa", true},
		{"Dia do Servidor Público (ponto facultativo)", true},
		{"Tiradentes", false},
		{"Sexta-feira Santa", false},
		{"Natal", false},
	}

	for _, tt := range tests {
		if got := IsObservance(tt.name); got != tt.want {
			t.Errorf("IsObservance(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestHolidaySet_WithoutObservances(t *testing.T) {
	s := NewHolidaySet(
		Holiday{Date: date(2026, time.February, 17), Name: "Carnaval"},
		Holiday{Date: date(2026, time.April, 21), Name: "Tiradentes"},
	)

	got := s.WithoutObservances()
	if got.Len() != 1 || !got.Contains(date(2026, time.April, 21)) {
		t.Errorf("WithoutObservances() = %v", got.Holidays())
	}
	if s.Len() != 2 {
		t.Errorf("source set modified: Len() = %d", s.Len())
	}
}

func TestCompositeProvider_Fallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	logger := zap.NewNop()
	primary := NewAPIProvider(server.URL+"/{year}", time.Second, time.Hour, logger)
	cp := NewCompositeProvider(primary, NewBuiltinProvider(), logger)

	hs, err := cp.Holidays([]int{2026})
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}
	if len(hs) != 10 {
		t.Errorf("fallback returned %d holidays, want 10", len(hs))
	}
}

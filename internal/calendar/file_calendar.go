package calendar

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/username/escala-updater/pkg/dateutil"
)

// ExtraHolidayName is the name given to user supplied dates
const ExtraHolidayName = "Feriado extra"

// ParseExtraHolidays parses user entered holidays, one date per line.
// Blank lines are ignored and lines that are not dates are dropped silently.
func ParseExtraHolidays(text string) HolidaySet {
	out := make(HolidaySet)
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		addExtraLine(out, scanner.Text())
	}
	return out
}

// ParseExtraHolidayList is ParseExtraHolidays for already split entries
func ParseExtraHolidayList(lines []string) HolidaySet {
	out := make(HolidaySet)
	for _, line := range lines {
		addExtraLine(out, line)
	}
	return out
}

// LoadExtraHolidaysFile reads a text file with one date per line.
// Lines starting with # are comments.
func LoadExtraHolidaysFile(path string) (HolidaySet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open holidays file: %w", err)
	}
	defer file.Close()

	out := make(HolidaySet)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		addExtraLine(out, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading holidays file: %w", err)
	}

	return out, nil
}

func addExtraLine(set HolidaySet, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	date, err := dateutil.ParseDayFirst(line)
	if err != nil {
		return
	}
	set.Add(date, ExtraHolidayName)
}

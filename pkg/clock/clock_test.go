package clock

import (
	"testing"
	"time"

	"github.com/psaab/netshell/pkg/cmderr"
)

func TestParseSet(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Setting
		wantErr string
	}{
		{"full month", []string{"10:20:30", "5", "March", "2024"},
			Setting{10, 20, 30, 5, time.March, 2024}, ""},
		{"prefix", []string{"00:00:00", "1", "de", "1993"},
			Setting{0, 0, 0, 1, time.December, 1993}, ""},
		{"case insensitive", []string{"23:59:59", "31", "JAN", "2035"},
			Setting{23, 59, 59, 31, time.January, 2035}, ""},
		{"leap day", []string{"12:00:00", "29", "feb", "2024"},
			Setting{12, 0, 0, 29, time.February, 2024}, ""},
		{"arity", []string{"12:00:00", "1", "jan"}, Setting{}, Usage},
		{"time format", []string{"12:00", "1", "jan", "2000"}, Setting{}, "Invalid time format. Expected hh:mm:ss."},
		{"hour", []string{"24:00:00", "1", "jan", "2000"}, Setting{}, "Hour must be between 0 and 23."},
		{"minute", []string{"10:60:00", "1", "jan", "2000"}, Setting{}, "Minutes must be between 0 and 59."},
		{"second", []string{"10:00:61", "1", "jan", "2000"}, Setting{}, "Seconds must be between 0 and 59."},
		{"day range", []string{"10:00:00", "32", "jan", "2000"}, Setting{}, "Invalid day. Expected a number between 1 and 31."},
		{"ambiguous month", []string{"10:00:00", "1", "ju", "2000"}, Setting{}, "Ambiguous month name. Please provide a more specific input."},
		{"bad month", []string{"10:00:00", "1", "smarch", "2000"}, Setting{}, "Invalid month. Expected a valid month name or abbreviation."},
		{"year low", []string{"10:00:00", "1", "jan", "1992"}, Setting{}, "Invalid year. Expected a number between 1993 and 2035."},
		{"feb 30", []string{"10:00:00", "30", "feb", "2024"}, Setting{}, "Invalid day 30 for month February"},
		{"feb 29 non leap", []string{"10:00:00", "29", "feb", "2023"}, Setting{}, "Invalid day 29 for month February"},
		{"april 31", []string{"10:00:00", "31", "apr", "2023"}, Setting{}, "Invalid day 31 for month April"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSet(tt.args)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				if !cmderr.IsKind(err, cmderr.ArgumentFormat) {
					t.Fatalf("kind = %s", cmderr.KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSetAdvances(t *testing.T) {
	host := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewWithSource(func() time.Time { return host })
	target := time.Date(2030, 6, 15, 8, 0, 0, 0, time.UTC)
	c.Set(target)
	if !c.Now().Equal(target) {
		t.Fatalf("Now = %v, want %v", c.Now(), target)
	}
	host = host.Add(90 * time.Second)
	if want := target.Add(90 * time.Second); !c.Now().Equal(want) {
		t.Fatalf("Now = %v, want %v", c.Now(), want)
	}
	if c.Uptime() != 90*time.Second {
		t.Fatalf("Uptime = %v", c.Uptime())
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatUptime(3*time.Hour + 4*time.Minute + 5*time.Second); got != "PNF uptime is 3 hours, 4 minutes, 5 seconds" {
		t.Errorf("FormatUptime = %q", got)
	}
	ts := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)
	if got := FormatNow(ts); got != "Current clock: 05 March 2024 07:08:09" {
		t.Errorf("FormatNow = %q", got)
	}
}

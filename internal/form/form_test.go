package form

import (
	"testing"
	"time"
)

var now = time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

func valid() Input {
	return Input{Date: "1990-06-15", Time: "14:30", Country: "USA", City: "New York"}
}

func TestValidateValid(t *testing.T) {
	if errs := Validate(valid(), now); len(errs) != 0 {
		t.Errorf("Validate(valid) = %v, want empty", errs)
	}
}

func TestValidateFields(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(in Input) Input
		field Field
		code  Code
	}{
		{"missing date", func(in Input) Input { in.Date = ""; return in }, FieldDate, CodeRequired},
		{"garbled date", func(in Input) Input { in.Date = "15/06/1990"; return in }, FieldDate, CodeInvalid},
		{"impossible date", func(in Input) Input { in.Date = "1990-02-30"; return in }, FieldDate, CodeInvalid},
		{"tomorrow", func(in Input) Input { in.Date = "2024-06-16"; return in }, FieldDate, CodeFuture},
		{"before 1900", func(in Input) Input { in.Date = "1899-12-31"; return in }, FieldDate, CodeBefore1900},
		{"missing time", func(in Input) Input { in.Time = ""; return in }, FieldTime, CodeRequired},
		{"bad time", func(in Input) Input { in.Time = "25:00"; return in }, FieldTime, CodeInvalid},
		{"short time", func(in Input) Input { in.Time = "9:30"; return in }, FieldTime, CodeInvalid},
		{"blank country", func(in Input) Input { in.Country = "   "; return in }, FieldCountry, CodeRequired},
		{"missing city", func(in Input) Input { in.City = ""; return in }, FieldCity, CodeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.edit(valid()), now)
			if len(errs) != 1 {
				t.Fatalf("Validate() = %v, want exactly one error", errs)
			}
			e, ok := errs[tt.field]
			if !ok || e.Code != tt.code {
				t.Errorf("errs[%s] = %+v, want code %s", tt.field, e, tt.code)
			}
		})
	}
}

func TestValidateToday(t *testing.T) {
	in := valid()
	in.Date = "2024-06-15"
	// late in the day in UTC; the calendar date is what counts
	if errs := Validate(in, now); len(errs) != 0 {
		t.Errorf("today should be valid, got %v", errs)
	}
}

func TestValidateFutureMessage(t *testing.T) {
	today := time.Now()
	in := Input{
		Date:    today.AddDate(0, 0, 1).Format("2006-01-02"),
		Time:    "12:00",
		Country: "USA",
		City:    "NYC",
	}
	errs := Validate(in, today)
	e, ok := errs[FieldDate]
	if !ok {
		t.Fatalf("no date error for tomorrow: %v", errs)
	}
	if msg := DefaultMessages.Text(e.Code); msg != "cannot be in the future" {
		t.Errorf("message = %q", msg)
	}
}

func TestValidateAllAtOnce(t *testing.T) {
	errs := Validate(Input{}, now)
	got := errs.Fields()
	if len(got) != 4 {
		t.Fatalf("Fields() = %v, want all four", got)
	}
	for i, f := range Fields {
		if got[i] != f {
			t.Errorf("Fields()[%d] = %s, want %s", i, got[i], f)
		}
	}
}

func TestAcceptsSeconds(t *testing.T) {
	in := valid()
	in.Time = "14:30:00"
	if errs := Validate(in, now); len(errs) != 0 {
		t.Errorf("Validate(HH:MM:SS) = %v", errs)
	}
}

func TestInputGetSet(t *testing.T) {
	in := Input{}.Set(FieldCity, "Paris").Set(FieldDate, "2000-01-01")
	if in.Get(FieldCity) != "Paris" || in.Get(FieldDate) != "2000-01-01" {
		t.Errorf("Get/Set round trip failed: %+v", in)
	}
	if in.Get(Field("nope")) != "" {
		t.Error("unknown field should read empty")
	}
}

func TestMessages(t *testing.T) {
	e := Error{FieldDate, CodeBefore1900}
	if e.Error() != "date: must be after 1900" {
		t.Errorf("Error() = %q", e.Error())
	}

	fr := Messages{CodeRequired: "est obligatoire"}
	if fr.Text(CodeRequired) != "est obligatoire" {
		t.Error("injected message not used")
	}
	if fr.Text(CodeFuture) != "future" {
		t.Errorf("missing entry should fall back to the code, got %q", fr.Text(CodeFuture))
	}
}
